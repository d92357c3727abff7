package pathmap

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnrelatedRoots indicates the docs root cannot be expressed relative to
// the repository root (different volumes, or one absolute and one relative).
var ErrUnrelatedRoots = errors.New("docs root and repository root are unrelated")

// Normalize returns p as a clean forward-slash path with no leading "./".
// Empty input and "." both normalize to "".
func Normalize(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// ToRepoPath converts a docs-relative path into a repository-relative path.
func ToRepoPath(docPath, docsRoot, repoRoot string) (string, error) {
	return rel(repoRoot, filepath.Join(docsRoot, filepath.FromSlash(Normalize(docPath))))
}

// ToDocPath converts a repository-relative path into a docs-relative path.
// The result starts with "../" when repoPath lies outside docsRoot.
func ToDocPath(repoPath, docsRoot, repoRoot string) (string, error) {
	return rel(docsRoot, filepath.Join(repoRoot, filepath.FromSlash(Normalize(repoPath))))
}

func rel(base, target string) (string, error) {
	r, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnrelatedRoots, err)
	}
	return Normalize(filepath.ToSlash(r)), nil
}

// Mapper converts between the two path frames for one fixed pair of roots.
// Both roots are made absolute once by New; conversions afterwards do no I/O.
type Mapper struct {
	docsRoot string
	repoRoot string
	offset   string
}

// New validates the roots and precomputes the docs root offset inside the
// repository. A relative docsRoot is taken relative to repoRoot.
func New(docsRoot, repoRoot string) (Mapper, error) {
	if strings.TrimSpace(repoRoot) == "" {
		return Mapper{}, fmt.Errorf("%w: repository root is empty", ErrUnrelatedRoots)
	}
	repoAbs, err := filepath.Abs(repoRoot)
	if err != nil {
		return Mapper{}, fmt.Errorf("resolving repository root: %w", err)
	}
	if !filepath.IsAbs(docsRoot) {
		docsRoot = filepath.Join(repoAbs, docsRoot)
	}
	docsAbs := filepath.Clean(docsRoot)
	offset, err := rel(repoAbs, docsAbs)
	if err != nil {
		return Mapper{}, err
	}
	return Mapper{docsRoot: docsAbs, repoRoot: repoAbs, offset: offset}, nil
}

// DocsRoot returns the absolute docs root.
func (m Mapper) DocsRoot() string { return m.docsRoot }

// RepoRoot returns the absolute repository root.
func (m Mapper) RepoRoot() string { return m.repoRoot }

// Offset returns the docs root relative to the repository root in slash form.
// It is "" when both roots coincide and starts with ".." when the docs root
// lies outside the repository.
func (m Mapper) Offset() string { return m.offset }

// ToRepo maps a DocPath into the repository frame.
func (m Mapper) ToRepo(docPath string) string {
	return Normalize(path.Join(m.offset, Normalize(docPath)))
}

// ToDoc maps a RepoPath into the docs frame.
func (m Mapper) ToDoc(repoPath string) (string, error) {
	return ToDocPath(repoPath, m.docsRoot, m.repoRoot)
}

// InDocs reports whether a DocPath stays inside the docs root.
func InDocs(docPath string) bool {
	docPath = Normalize(docPath)
	return docPath != "" && docPath != ".." && !strings.HasPrefix(docPath, "../")
}

// DocSet maps repository paths into the docs frame and keeps those that land
// inside the docs root. Paths that cannot be mapped are dropped.
func (m Mapper) DocSet(repoPaths []string) *Set {
	out := NewSet()
	for _, p := range repoPaths {
		doc, err := m.ToDoc(p)
		if err != nil || !InDocs(doc) {
			continue
		}
		out.Add(doc)
	}
	return out
}
