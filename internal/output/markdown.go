package output

import (
	"io"

	"github.com/dshills/gitrange/internal/filter"
	"github.com/dshills/gitrange/internal/plugin"
)

// MarkdownWriter outputs a summary suitable for a PR comment or job summary.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *plugin.Report) error {
	ew := &errWriter{w: w}

	ew.printf("## gitrange `%s..%s`\n\n", shortSHA(report.Range.From), shortSHA(report.Range.To))

	ew.println("| Files | Changed | Kept | Excluded |")
	ew.println("|-------|---------|------|----------|")
	ew.printf("| %d | %d | %d | %d |\n\n",
		report.Summary.Files, report.Summary.Changed, report.Summary.Kept, report.Summary.Excluded)

	if len(report.Changed) == 0 {
		ew.println("No changed pages in range. :white_check_mark:")
	} else {
		ew.printf("<details>\n<summary>Changed pages (%d)</summary>\n\n", len(report.Changed))
		for _, p := range report.Changed {
			ew.printf("- `%s`\n", p)
		}
		ew.println("\n</details>\n")
	}

	if len(report.Excluded) > 0 {
		writeResults(ew, "Excluded pages", report.Excluded)
	}

	if len(report.Commits) > 0 {
		ew.printf("<details>\n<summary>Commits (%d)</summary>\n\n", len(report.Commits))
		for _, c := range report.Commits {
			ew.printf("- `%s` %s\n", shortSHA(c.SHA), c.Subject)
		}
		ew.println("\n</details>\n")
	}

	ew.printf("*Resolved in %dms (git: %dms, filter: %dms)*\n",
		report.Timing.TotalMs, report.Timing.GitMs, report.Timing.FilterMs)

	return ew.err
}

func writeResults(ew *errWriter, title string, results []filter.Result) {
	ew.printf("<details>\n<summary>%s (%d)</summary>\n\n", title, len(results))
	for _, r := range results {
		ew.printf("- `%s`: %s\n", r.DocPath, r.Reason)
	}
	ew.println("\n</details>\n")
}
