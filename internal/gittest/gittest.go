// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Repo is a temporary working copy.
type Repo struct {
	t   testing.TB
	Dir string
}

// RequireGit skips the test when git is not on PATH.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// New initializes an empty repository on branch main.
func New(t testing.TB) *Repo {
	t.Helper()
	RequireGit(t)
	r := &Repo{t: t, Dir: t.TempDir()}
	if resolved, err := filepath.EvalSymlinks(r.Dir); err == nil {
		r.Dir = resolved
	}
	r.Git("init", "-q")
	r.Git("symbolic-ref", "HEAD", "refs/heads/main")
	return r
}

// Git runs a git command in the repository and returns trimmed stdout.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@test.com",
		"GIT_CONFIG_NOSYSTEM=1",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// Write creates or replaces a file relative to the repository root.
func (r *Repo) Write(rel, content string) {
	r.t.Helper()
	path := filepath.Join(r.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatal(err)
	}
}

// Remove deletes a file relative to the repository root.
func (r *Repo) Remove(rel string) {
	r.t.Helper()
	if err := os.Remove(filepath.Join(r.Dir, filepath.FromSlash(rel))); err != nil {
		r.t.Fatal(err)
	}
}

// Commit stages everything and commits, returning the new HEAD SHA.
func (r *Repo) Commit(msg string) string {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "-q", "--allow-empty", "-m", msg)
	return r.Git("rev-parse", "HEAD")
}

// Docs is a repository laid out like an MkDocs project with two commits:
// C1 adds index.md, guide.md, api/overview.md, an image and mkdocs.yml;
// C2 modifies guide.md and adds new.md.
type Docs struct {
	*Repo
	C1 string
	C2 string
}

// NewDocs builds the Docs fixture.
func NewDocs(t testing.TB) *Docs {
	t.Helper()
	r := New(t)
	r.Write("mkdocs.yml", "site_name: Test Site\ndocs_dir: docs\nplugins:\n  - git-range\n")
	r.Write("README.md", "# Test Repo\n")
	r.Write("docs/index.md", "# Home\nWelcome to the docs\n")
	r.Write("docs/guide.md", "# Guide\nThis is a guide\n")
	r.Write("docs/api/overview.md", "# API Overview\nAPI documentation\n")
	r.Write("docs/img/logo.png", "not really a png\n")
	c1 := r.Commit("Initial docs")

	r.Write("docs/guide.md", "# Guide\nThis is an updated guide with more content\n")
	r.Write("docs/new.md", "# New Page\nThis is a new page\n")
	c2 := r.Commit("Update guide and add new page")

	return &Docs{Repo: r, C1: c1, C2: c2}
}
