// Package template renders the text templates used to build service requests.
package template

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"
)

var funcs = template.FuncMap{
	"rfc3339": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
	"json": JSON,
	"upper": strings.ToUpper,
}

// Parse compiles templateStr with the package functions.
func Parse(name, templateStr string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	return tmpl, nil
}

// Render executes templateStr against data and trims surrounding whitespace.
func Render(templateStr string, data any) (string, error) {
	tmpl, err := Parse("render", templateStr)
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// JSON renders value compactly; strings are returned as they are.
func JSON(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(data)
}
