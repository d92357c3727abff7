package cli

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dshills/gitrange/internal/config"
	"github.com/spf13/cobra"
)

// Shared flags
var (
	flagConfig      string
	flagVerbose     bool
	flagFormat      string
	flagOut         string
	flagFrom        string
	flagTo          string
	flagFilter      string
	flagInclude     string
	flagChangeTypes string
	flagTimeout     int
)

func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "f", config.DefaultFile, "Path to mkdocs.yml")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log info messages to stderr")
	pf.StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	pf.StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	pf.StringVar(&flagFrom, "from", "", "Range start reference (default: root commit)")
	pf.StringVar(&flagTo, "to", "", "Range end reference (default: HEAD)")
	pf.StringVar(&flagFilter, "filter", "", "Exclude unchanged pages (true or false)")
	pf.StringVar(&flagInclude, "include", "", "Pages always kept (comma-separated)")
	pf.StringVar(&flagChangeTypes, "change-types", "", "Change types counted as changed (comma-separated)")
	pf.IntVar(&flagTimeout, "timeout", 0, "Git command timeout in seconds")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFrom != "" {
		m["from"] = flagFrom
	}
	if flagTo != "" {
		m["to"] = flagTo
	}
	if flagFilter != "" {
		m["filter"] = flagFilter
	}
	if flagInclude != "" {
		m["include"] = strings.Join(splitComma(flagInclude), ",")
	}
	if flagChangeTypes != "" {
		m["change_types"] = strings.Join(splitComma(flagChangeTypes), ",")
	}
	if flagTimeout > 0 {
		m["timeout"] = fmt.Sprintf("%d", flagTimeout)
	}
	return m
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

const logPrefix = "gitrange: "

// levelWriter drops info lines unless verbose is set. Errors and warnings
// always pass.
type levelWriter struct {
	w       io.Writer
	verbose bool
}

func (lw levelWriter) Write(p []byte) (int, error) {
	msg := bytes.TrimPrefix(p, []byte(logPrefix))
	if !lw.verbose && bytes.HasPrefix(msg, []byte("info:")) {
		return len(p), nil
	}
	return lw.w.Write(p)
}

func newLogger() *log.Logger {
	return log.New(levelWriter{w: os.Stderr, verbose: flagVerbose}, logPrefix, 0)
}
