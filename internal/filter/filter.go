package filter

import (
	"github.com/dshills/gitrange/internal/pathmap"
)

// Page is the part of a pipeline file the filter reads and toggles.
type Page interface {
	// DocPath returns the file's path relative to the docs root.
	DocPath() string
	// IsDocumentation reports whether the pipeline treats the file as a page.
	IsDocumentation() bool
	// Exclude marks the file as excluded from the build. Content is untouched.
	Exclude()
}

// Decision is the outcome for one page.
type Decision int

const (
	Keep Decision = iota
	Exclude
)

func (d Decision) String() string {
	if d == Exclude {
		return "exclude"
	}
	return "keep"
}

// Reason explains a decision.
type Reason string

const (
	ReasonDisabled    Reason = "filter disabled"
	ReasonAsset       Reason = "not documentation"
	ReasonChanged     Reason = "changed"
	ReasonAllowListed Reason = "always included"
	ReasonUnchanged   Reason = "unchanged"
)

// Options are the inputs of one filtering pass. Changed and Include hold
// DocPaths; a nil set is empty.
type Options struct {
	Enabled bool
	Changed *pathmap.Set
	Include *pathmap.Set
}

// Decide returns the decision for a single page without touching it.
func Decide(p Page, opts Options) (Decision, Reason) {
	if !opts.Enabled {
		return Keep, ReasonDisabled
	}
	if !p.IsDocumentation() {
		return Keep, ReasonAsset
	}
	doc := p.DocPath()
	switch {
	case opts.Changed.Has(doc):
		return Keep, ReasonChanged
	case opts.Include.Has(doc):
		return Keep, ReasonAllowListed
	default:
		return Exclude, ReasonUnchanged
	}
}

// Result records the decision made for one page.
type Result struct {
	DocPath  string   `json:"path"`
	Decision Decision `json:"-"`
	Reason   Reason   `json:"reason"`
}

// Summary is the outcome of Apply.
type Summary struct {
	Enabled  bool     `json:"enabled"`
	Total    int      `json:"total"`
	Kept     []Result `json:"kept"`
	Excluded []Result `json:"excluded"`
}

// Apply decides every page and marks the excluded ones. When filtering is
// disabled no page is inspected beyond being counted.
func Apply[P Page](pages []P, opts Options) Summary {
	sum := Summary{Enabled: opts.Enabled, Total: len(pages)}
	if !opts.Enabled {
		return sum
	}
	for _, p := range pages {
		d, why := Decide(p, opts)
		res := Result{DocPath: pathmap.Normalize(p.DocPath()), Decision: d, Reason: why}
		if d == Exclude {
			p.Exclude()
			sum.Excluded = append(sum.Excluded, res)
			continue
		}
		sum.Kept = append(sum.Kept, res)
	}
	return sum
}

// KeptPaths returns the DocPaths of kept pages in page order.
func (s Summary) KeptPaths() []string {
	return resultPaths(s.Kept)
}

// ExcludedPaths returns the DocPaths of excluded pages in page order.
func (s Summary) ExcludedPaths() []string {
	return resultPaths(s.Excluded)
}

func resultPaths(rs []Result) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.DocPath)
	}
	return out
}
