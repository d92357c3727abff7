package site

import (
	"bytes"
	"fmt"
	"text/template"
)

// PageData is the value templates see as ".".
type PageData struct {
	SiteName string
	Page     *File
}

// RenderMarkdown evaluates src as a template with funcs available. Unknown
// map keys are errors. Template errors are returned unchanged in meaning,
// wrapped with the page name.
func RenderMarkdown(name, src string, funcs template.FuncMap, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Funcs(funcs).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
