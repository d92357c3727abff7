package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/gitrange/internal/filter"
	"github.com/dshills/gitrange/internal/plugin"
)

// JSONWriter outputs the full report as JSON. Page lists are always arrays,
// never null, and paths are written verbatim (no HTML escaping of & < >).
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *plugin.Report) error {
	r := *report
	if r.Changed == nil {
		r.Changed = []string{}
	}
	if r.ChangeTypes == nil {
		r.ChangeTypes = []string{}
	}
	if r.Kept == nil {
		r.Kept = []filter.Result{}
	}
	if r.Excluded == nil {
		r.Excluded = []filter.Result{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(&r); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}
