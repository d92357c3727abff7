package site

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dshills/gitrange/internal/pathmap"
)

// Kind classifies a file for the pipeline.
type Kind int

const (
	Static Kind = iota
	Documentation
)

func (k Kind) String() string {
	if k == Documentation {
		return "documentation"
	}
	return "static"
}

// Inclusion is a file's build state.
type Inclusion int

const (
	Included Inclusion = iota
	Excluded
)

func (i Inclusion) String() string {
	if i == Excluded {
		return "excluded"
	}
	return "included"
}

// File is one source file of the site.
type File struct {
	// SrcURI is the path relative to the docs directory, slash-separated.
	SrcURI     string
	AbsSrcPath string
	Kind       Kind
	Inclusion  Inclusion
}

// DocPath returns the file's path relative to the docs directory.
func (f *File) DocPath() string { return f.SrcURI }

// IsDocumentation reports whether the file is a markdown page.
func (f *File) IsDocumentation() bool { return f.Kind == Documentation }

// Exclude marks the file as excluded from the build.
func (f *File) Exclude() { f.Inclusion = Excluded }

// IsIncluded reports whether the file will be written.
func (f *File) IsIncluded() bool { return f.Inclusion == Included }

// Files is the site's file collection in SrcURI order.
type Files []*File

// Get returns the file with the given DocPath, or nil.
func (files Files) Get(docPath string) *File {
	docPath = pathmap.Normalize(docPath)
	for _, f := range files {
		if f.SrcURI == docPath {
			return f
		}
	}
	return nil
}

// Documentation returns the markdown pages.
func (files Files) Documentation() Files {
	var out Files
	for _, f := range files {
		if f.IsDocumentation() {
			out = append(out, f)
		}
	}
	return out
}

// Included returns the files that will be written.
func (files Files) Included() Files {
	var out Files
	for _, f := range files {
		if f.IsIncluded() {
			out = append(out, f)
		}
	}
	return out
}

// Paths returns every SrcURI.
func (files Files) Paths() []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.SrcURI)
	}
	return out
}

// Set returns the SrcURIs as a path set.
func (files Files) Set() *pathmap.Set {
	return pathmap.NewSet(files.Paths()...)
}

// IsMarkdown reports whether name has a markdown extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Discover walks docsDir and returns its files. Entries whose name starts
// with a dot are skipped, as are their contents.
func Discover(docsDir string) (Files, error) {
	var files Files
	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != docsDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			return err
		}
		kind := Static
		if IsMarkdown(path) {
			kind = Documentation
		}
		files = append(files, &File{
			SrcURI:     pathmap.Normalize(filepath.ToSlash(rel)),
			AbsSrcPath: path,
			Kind:       kind,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files in %s: %w", docsDir, err)
	}
	return files, nil
}
