// Package output formats build reports for display or machine consumption.
//
// Three formats are supported:
//   - text: human-readable terminal output (default)
//   - json: the full structured report
//   - markdown: a summary table with collapsible page lists
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and a [*plugin.Report]. [WriteReport]
// handles destination selection. [WritePaths] prints a plain path list in
// the same formats.
package output
