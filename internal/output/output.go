package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dshills/gitrange/internal/plugin"
)

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *plugin.Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to the specified output (file path or stdout).
func WriteReport(report *plugin.Report, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	return withOutput(outPath, func(w io.Writer) error {
		return writer.Write(w, report)
	})
}

// WritePaths writes a list of DocPaths: one per line for text, a JSON array,
// or a markdown bullet list.
func WritePaths(w io.Writer, paths []string, format string) error {
	ew := &errWriter{w: w}
	switch format {
	case "text", "":
		for _, p := range paths {
			ew.println(p)
		}
	case "json":
		if paths == nil {
			paths = []string{}
		}
		data, err := json.MarshalIndent(paths, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		ew.println(string(data))
	case "markdown":
		if len(paths) == 0 {
			ew.println("_No changed pages._")
		}
		for _, p := range paths {
			ew.printf("- [%s](%s)\n", p, p)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return ew.err
}

// WritePathsTo is WritePaths with the same destination handling as
// WriteReport.
func WritePathsTo(paths []string, format, outPath string) error {
	return withOutput(outPath, func(w io.Writer) error {
		return WritePaths(w, paths, format)
	})
}

func withOutput(outPath string, fn func(io.Writer) error) error {
	if outPath == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func shortSHA(ref string) string {
	if len(ref) == 40 {
		return ref[:7]
	}
	return ref
}
