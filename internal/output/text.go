package output

import (
	"io"
	"strings"

	"github.com/dshills/gitrange/internal/plugin"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *plugin.Report) error {
	ew := &errWriter{w: w}

	ew.printf("gitrange: %s..%s\n", shortSHA(report.Range.From), shortSHA(report.Range.To))
	ew.printf("Repository: %s (branch: %s)\n", report.Repo.Root, report.Repo.Branch)
	ew.printf("Docs: %s\n", report.DocsDir)
	ew.printf("Change types: %s\n", strings.Join(report.ChangeTypes, ", "))
	if report.Filter {
		ew.println("Filter: enabled")
	} else {
		ew.println("Filter: disabled")
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Files: %d | Changed: %d | Kept: %d | Excluded: %d\n",
		report.Summary.Files, report.Summary.Changed, report.Summary.Kept, report.Summary.Excluded)
	ew.println(strings.Repeat("─", 60))

	if len(report.Changed) == 0 {
		ew.println("\nNo changed pages in range.")
	} else {
		ew.println("\nChanged")
		for _, p := range report.Changed {
			ew.printf("  %s\n", p)
		}
	}

	if len(report.Excluded) > 0 {
		ew.println("\nExcluded")
		for _, r := range report.Excluded {
			ew.printf("  %s (%s)\n", r.DocPath, r.Reason)
		}
	}

	if len(report.Commits) > 0 {
		ew.println("\nCommits")
		for _, c := range report.Commits {
			ew.printf("  %s %s\n", shortSHA(c.SHA), c.Subject)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (git: %dms, filter: %dms)\n",
		report.Timing.TotalMs, report.Timing.GitMs, report.Timing.FilterMs)

	return ew.err
}
