package plugin

import (
	"github.com/dshills/gitrange/internal/cache"
	"github.com/dshills/gitrange/internal/filter"
	"github.com/dshills/gitrange/internal/gitctx"
)

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

// Summary counts the outcome of a filtering pass.
type Summary struct {
	Files    int `json:"files"`
	Changed  int `json:"changed"`
	Kept     int `json:"kept"`
	Excluded int `json:"excluded"`
}

// Timing contains performance metrics.
type Timing struct {
	GitMs    int64 `json:"gitMs"`
	FilterMs int64 `json:"filterMs"`
	TotalMs  int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool        string              `json:"tool"`
	Version     string              `json:"version"`
	RunID       string              `json:"runId"`
	Repo        RepoInfo            `json:"repo"`
	DocsDir     string              `json:"docsDir"`
	Range       gitctx.Range        `json:"range"`
	ChangeTypes []string            `json:"changeTypes"`
	Filter      bool                `json:"filter"`
	Changed     []string            `json:"changed"`
	Kept        []filter.Result     `json:"kept"`
	Excluded    []filter.Result     `json:"excluded"`
	Commits     []gitctx.CommitInfo `json:"commits,omitempty"`
	Summary     Summary             `json:"summary"`
	Memo        cache.Stats         `json:"memo"`
	Timing      Timing              `json:"timing"`
}
