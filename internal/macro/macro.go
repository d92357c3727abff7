package macro

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/dshills/gitrange/internal/cache"
	"github.com/dshills/gitrange/internal/gitctx"
	"github.com/dshills/gitrange/internal/pathmap"
)

// FuncName is the name templates use to call the lister.
const FuncName = "git_range"

// ErrTooManyRefs is returned when a template passes more than two references.
var ErrTooManyRefs = errors.New("git_range accepts at most two references")

// Differ resolves the changed repository paths in a range.
type Differ interface {
	ChangedFiles(ctx context.Context, rng gitctx.Range, scope string, types gitctx.ChangeTypes) *pathmap.Set
}

// Config holds everything a Lister needs.
type Config struct {
	Repo   Differ
	Mapper pathmap.Mapper
	Range  gitctx.Range
	Scope  string
	Types  gitctx.ChangeTypes
	// Memo may be nil, in which case every call runs a diff.
	Memo *cache.Memo
	// Files restricts results to paths present in the build. Nil means no
	// restriction.
	Files *pathmap.Set
}

// Lister lists changed DocPaths for a range.
type Lister struct {
	cfg Config
}

// New returns a Lister for cfg.
func New(cfg Config) Lister {
	return Lister{cfg: cfg}
}

// Range returns the range a call with the given refs resolves to. Empty refs
// fall back to the build-wide range.
func (l Lister) Range(refs ...string) (gitctx.Range, error) {
	if len(refs) > 2 {
		return gitctx.Range{}, fmt.Errorf("%w, got %d", ErrTooManyRefs, len(refs))
	}
	rng := l.cfg.Range
	if len(refs) > 0 && strings.TrimSpace(refs[0]) != "" {
		rng.From = strings.TrimSpace(refs[0])
	}
	if len(refs) > 1 && strings.TrimSpace(refs[1]) != "" {
		rng.To = strings.TrimSpace(refs[1])
	}
	return rng, nil
}

// List returns the sorted DocPaths changed in the resolved range. Diff
// failures yield an empty list; they are logged by the Differ.
func (l Lister) List(ctx context.Context, refs ...string) ([]string, error) {
	rng, err := l.Range(refs...)
	if err != nil {
		return nil, err
	}
	key := cache.BuildKey(rng.From, rng.To, l.cfg.Scope, l.cfg.Types.DiffFilter())
	if paths, ok := l.cfg.Memo.Get(key); ok {
		return paths, nil
	}

	changed := l.cfg.Repo.ChangedFiles(ctx, rng, l.cfg.Scope, l.cfg.Types)
	docs := l.cfg.Mapper.DocSet(changed.Paths())
	paths := make([]string, 0, docs.Len())
	for _, p := range docs.Sorted() {
		if l.cfg.Files != nil && !l.cfg.Files.Has(p) {
			continue
		}
		paths = append(paths, p)
	}
	l.cfg.Memo.Put(key, paths)
	return paths, nil
}

// Func adapts List to a template function bound to ctx.
func (l Lister) Func(ctx context.Context) func(refs ...string) ([]string, error) {
	return func(refs ...string) ([]string, error) {
		return l.List(ctx, refs...)
	}
}

// FuncMap returns a template.FuncMap exposing the lister as git_range.
func (l Lister) FuncMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{FuncName: l.Func(ctx)}
}
