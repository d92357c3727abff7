package gitctx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/dshills/gitrange/internal/pathmap"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotGitRepo indicates the directory is not inside a git working copy.
	ErrNotGitRepo = errors.New("not a git repository")
	// ErrNoCommits indicates the repository has no history to resolve.
	ErrNoCommits = errors.New("repository has no commits")
	// ErrTimeout indicates a git invocation exceeded its deadline.
	ErrTimeout = errors.New("git command timed out")
	// ErrEmptyRef indicates a range endpoint was left unset.
	ErrEmptyRef = errors.New("empty reference")
)

// VCSError reports a failed git invocation.
type VCSError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *VCSError) Error() string {
	msg := fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *VCSError) Unwrap() error { return e.Err }

// Runner executes git with args inside dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary as a subprocess.
type ExecRunner struct {
	// Binary defaults to "git" resolved through PATH.
	Binary string
	// Timeout bounds each invocation; zero means no extra deadline.
	Timeout time.Duration
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ErrTimeout
		}
		return stdout.String(), &VCSError{Args: args, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.String(), nil
}

// Range is an ordered pair of references.
type Range struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r Range) String() string {
	return r.From + ".." + r.To
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

// CommitInfo holds a commit SHA and its subject line.
type CommitInfo struct {
	SHA     string `json:"sha"`
	Subject string `json:"subject"`
}

// Repo is a handle on one git working copy. Once the root commit resolves
// it is kept for the life of the Repo.
type Repo struct {
	root   string
	runner Runner
	logger *log.Logger

	tailMu sync.Mutex
	tail   string
}

// Option configures a Repo.
type Option func(*Repo)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(repo *Repo) { repo.runner = r }
}

// WithLogger sets the logger used for fail-open diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(repo *Repo) {
		if l != nil {
			repo.logger = l
		}
	}
}

// Open locates the working copy containing dir, searching parent directories.
func Open(ctx context.Context, dir string, opts ...Option) (*Repo, error) {
	r := &Repo{
		runner: ExecRunner{Timeout: DefaultTimeout},
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	out, err := r.runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotGitRepo, dir, err)
	}
	r.root = strings.TrimSpace(out)
	if r.root == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, dir)
	}
	return r, nil
}

// Root returns the top-level directory of the working copy.
func (r *Repo) Root() string {
	return r.root
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.root, args...)
}

// RootCommit returns the commit with no parents reachable from HEAD. When the
// history has several roots the oldest one is used. Failures are not cached,
// so a call after a canceled context tries again.
func (r *Repo) RootCommit(ctx context.Context) (string, error) {
	r.tailMu.Lock()
	defer r.tailMu.Unlock()
	if r.tail != "" {
		return r.tail, nil
	}
	out, err := r.git(ctx, "rev-list", "--max-parents=0", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolving root commit: %w", err)
	}
	lines := splitLines(out)
	if len(lines) == 0 {
		return "", ErrNoCommits
	}
	r.tail = lines[len(lines)-1]
	return r.tail, nil
}

// Head returns the SHA of the checked-out commit.
func (r *Repo) Head(ctx context.Context) (string, error) {
	return r.ResolveRef(ctx, "HEAD")
}

// ResolveRef resolves a reference (SHA, branch, tag, HEAD~N) to a full SHA.
func (r *Repo) ResolveRef(ctx context.Context, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", ErrEmptyRef
	}
	out, err := r.git(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", ref, err)
	}
	return strings.TrimSpace(out), nil
}

// Meta collects repository metadata. Head and Branch are empty for a
// repository without commits.
func (r *Repo) Meta(ctx context.Context) RepoMeta {
	meta := RepoMeta{Root: r.root}
	if head, err := r.git(ctx, "rev-parse", "HEAD"); err == nil {
		meta.Head = strings.TrimSpace(head)
	}
	if branch, err := r.git(ctx, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		meta.Branch = strings.TrimSpace(branch)
	}
	return meta
}

// DiffArgs builds the git arguments for a name-only range diff. Paths come
// back NUL-terminated and unquoted.
func DiffArgs(rng Range, scope string, types ChangeTypes) []string {
	args := []string{"-c", "core.quotepath=off", "diff", "--name-only", "-z", "--no-color", "--find-renames"}
	if filter := types.DiffFilter(); filter != "" {
		args = append(args, "--diff-filter="+filter)
	}
	args = append(args, rng.String(), "--")
	if scope = strings.TrimSpace(scope); scope != "" {
		args = append(args, scope)
	}
	return args
}

// Diff returns the repository-relative paths that differ between the range
// endpoints, restricted to scope and to the given change types. Paths keep
// git's output order.
func (r *Repo) Diff(ctx context.Context, rng Range, scope string, types ChangeTypes) ([]string, error) {
	if strings.TrimSpace(rng.From) == "" || strings.TrimSpace(rng.To) == "" {
		return nil, fmt.Errorf("diff %s: %w", rng, ErrEmptyRef)
	}
	if types != nil && len(types) == 0 {
		return nil, nil
	}
	out, err := r.git(ctx, DiffArgs(rng, scope, types)...)
	if err != nil {
		return nil, err
	}
	return pathmap.NewSet(splitNUL(out)...).Paths(), nil
}

// ChangedFiles is the fail-open form of Diff: any failure is logged at error
// severity and reported as an empty set so a documentation build never stops
// on a diff problem.
func (r *Repo) ChangedFiles(ctx context.Context, rng Range, scope string, types ChangeTypes) *pathmap.Set {
	files, err := r.Diff(ctx, rng, scope, types)
	if err != nil {
		r.logger.Printf("error: resolving changes for %s failed, treating range as unchanged: %v", rng, err)
		return pathmap.NewSet()
	}
	return pathmap.NewSet(files...)
}

// ListCommits returns the commits in the range, oldest first.
func (r *Repo) ListCommits(ctx context.Context, rng Range) ([]CommitInfo, error) {
	out, err := r.git(ctx, "rev-list", "--reverse", "--format=%s", rng.String())
	if err != nil {
		return nil, fmt.Errorf("listing commits in %s: %w", rng, err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var commits []CommitInfo
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "commit ") {
			continue
		}
		ci := CommitInfo{SHA: strings.TrimPrefix(line, "commit ")}
		if i+1 < len(lines) && !strings.HasPrefix(lines[i+1], "commit ") {
			ci.Subject = strings.TrimSpace(lines[i+1])
			i++
		}
		commits = append(commits, ci)
	}
	return commits, nil
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitNUL splits -z output. Entries are trimmed like lines so stray
// newlines never produce a path.
func splitNUL(out string) []string {
	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
