package plugin

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/dshills/gitrange/internal/cache"
	"github.com/dshills/gitrange/internal/config"
	"github.com/dshills/gitrange/internal/filter"
	"github.com/dshills/gitrange/internal/gitctx"
	"github.com/dshills/gitrange/internal/macro"
	"github.com/dshills/gitrange/internal/pathmap"
	"github.com/dshills/gitrange/internal/site"
)

const (
	Tool    = "gitrange"
	Version = "0.1.0"
)

// Repo is the version-control capability a build needs. *gitctx.Repo
// implements it.
type Repo interface {
	Root() string
	RootCommit(ctx context.Context) (string, error)
	ChangedFiles(ctx context.Context, rng gitctx.Range, scope string, types gitctx.ChangeTypes) *pathmap.Set
	ListCommits(ctx context.Context, rng gitctx.Range) ([]gitctx.CommitInfo, error)
	Meta(ctx context.Context) gitctx.RepoMeta
}

// BuildContext carries everything one build needs. It is created by New at
// build start and passed to every hook.
type BuildContext struct {
	cfg     config.Config
	repo    Repo
	mapper  pathmap.Mapper
	rng     gitctx.Range
	types   gitctx.ChangeTypes
	scope   string
	include *pathmap.Set
	memo    *cache.Memo
	logger  *log.Logger

	files  *pathmap.Set
	report *Report
}

// New prepares a build. It resolves the default range (root commit to HEAD)
// and fixes the docs/repository path mapping. A docs directory that cannot
// be related to the repository root is a configuration error.
func New(ctx context.Context, cfg config.Config, repo Repo, logger *log.Logger) (*BuildContext, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	types, err := cfg.ChangeTypes()
	if err != nil {
		return nil, fmt.Errorf("change_types: %w", err)
	}

	docsDir := cfg.DocsPath()
	if resolved, err := filepath.EvalSymlinks(docsDir); err == nil {
		docsDir = resolved
	}
	mapper, err := pathmap.New(docsDir, repo.Root())
	if err != nil {
		return nil, fmt.Errorf("mapping %s into %s: %w", docsDir, repo.Root(), err)
	}

	rng := gitctx.Range{From: cfg.Plugin.From, To: cfg.Plugin.To}
	if rng.To == "" {
		rng.To = "HEAD"
	}
	if rng.From == "" {
		tail, err := repo.RootCommit(ctx)
		if err != nil {
			logger.Printf("error: resolving default range start: %v", err)
		}
		rng.From = tail
	}

	scope := mapper.Offset()
	if scope == "" {
		scope = "."
	}

	b := &BuildContext{
		cfg:     cfg,
		repo:    repo,
		mapper:  mapper,
		rng:     rng,
		types:   types,
		scope:   scope,
		include: pathmap.NewSet(cfg.Plugin.Include...),
		memo:    cache.New(true),
		logger:  logger,
	}
	logger.Printf("info: range %s, change types %s, docs %s", rng, types, docsDir)
	return b, nil
}

// Range returns the build-wide range.
func (b *BuildContext) Range() gitctx.Range { return b.rng }

// ChangeTypes returns the change-type policy in effect.
func (b *BuildContext) ChangeTypes() gitctx.ChangeTypes { return b.types }

// Mapper returns the docs/repository path mapper.
func (b *BuildContext) Mapper() pathmap.Mapper { return b.mapper }

// Scope returns the diff scope relative to the repository root.
func (b *BuildContext) Scope() string { return b.scope }

// Report returns the outcome of OnFiles, or nil before it ran. Memo
// statistics are current as of the call.
func (b *BuildContext) Report() *Report {
	if b.report != nil {
		b.report.Memo = b.memo.GetStats()
	}
	return b.report
}

// Lister returns the git_range lister bound to files. A nil set leaves
// results unrestricted.
func (b *BuildContext) Lister(files *pathmap.Set) macro.Lister {
	return macro.New(macro.Config{
		Repo:   b.repo,
		Mapper: b.mapper,
		Range:  b.rng,
		Scope:  b.scope,
		Types:  b.types,
		Memo:   b.memo,
		Files:  files,
	})
}

// OnFiles resolves the changed set once and applies the inclusion filter to
// files. Diff failures have already been logged and count as no changes, so
// OnFiles itself does not fail.
func (b *BuildContext) OnFiles(ctx context.Context, files site.Files) error {
	start := time.Now()

	changedRepo := b.repo.ChangedFiles(ctx, b.rng, b.scope, b.types)
	gitMs := time.Since(start).Milliseconds()
	changed := b.mapper.DocSet(changedRepo.Paths())

	filterStart := time.Now()
	b.files = files.Set()
	sum := filter.Apply(files, filter.Options{
		Enabled: b.cfg.Plugin.Filter,
		Changed: changed,
		Include: b.include,
	})
	filterMs := time.Since(filterStart).Milliseconds()

	// git_range without arguments reuses this diff.
	var listed []string
	for _, p := range changed.Sorted() {
		if b.files.Has(p) {
			listed = append(listed, p)
		}
	}
	if listed == nil {
		listed = []string{}
	}
	b.memo.Put(cache.BuildKey(b.rng.From, b.rng.To, b.scope, b.types.DiffFilter()), listed)

	for _, r := range sum.Excluded {
		b.logger.Printf("info: excluding unchanged page %s", r.DocPath)
	}
	b.logger.Printf("info: %d changed, %d kept, %d excluded of %d files",
		changed.Len(), sum.Total-len(sum.Excluded), len(sum.Excluded), sum.Total)

	b.report = b.buildReport(ctx, changed, sum, gitMs, filterMs, start)
	return nil
}

// OnPageMarkdown renders a page's markdown with git_range bound to the
// build's file set. Template errors are returned to the caller.
func (b *BuildContext) OnPageMarkdown(ctx context.Context, page *site.File, markdown string, files site.Files) (string, error) {
	set := b.files
	if set == nil {
		set = files.Set()
	}
	data := site.PageData{SiteName: b.cfg.SiteName, Page: page}
	return site.RenderMarkdown(page.SrcURI, markdown, b.Lister(set).FuncMap(ctx), data)
}

func (b *BuildContext) buildReport(ctx context.Context, changed *pathmap.Set, sum filter.Summary, gitMs, filterMs int64, start time.Time) *Report {
	meta := b.repo.Meta(ctx)
	commits, err := b.repo.ListCommits(ctx, b.rng)
	if err != nil {
		b.logger.Printf("warn: listing commits in %s: %v", b.rng, err)
	}
	return &Report{
		Tool:        Tool,
		Version:     Version,
		RunID:       generateRunID(),
		Repo:        RepoInfo{Root: meta.Root, Head: meta.Head, Branch: meta.Branch},
		DocsDir:     b.mapper.DocsRoot(),
		Range:       b.rng,
		ChangeTypes: b.types.Names(),
		Filter:      sum.Enabled,
		Changed:     changed.Sorted(),
		Kept:        sum.Kept,
		Excluded:    sum.Excluded,
		Commits:     commits,
		Summary: Summary{
			Files:    sum.Total,
			Changed:  changed.Len(),
			Kept:     sum.Total - len(sum.Excluded),
			Excluded: len(sum.Excluded),
		},
		Memo: b.memo.GetStats(),
		Timing: Timing{
			GitMs:    gitMs,
			FilterMs: filterMs,
			TotalMs:  time.Since(start).Milliseconds(),
		},
	}
}

func generateRunID() string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	return fmt.Sprintf("%x", h[:16])
}
