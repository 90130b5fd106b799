package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// HTML writes s as an escaped HTML fragment.
func HTML(w io.Writer, s Section) error {
	return templates.ExecuteTemplate(w, "section", s)
}

// HTMLString renders s into a string.
func HTMLString(s Section) (string, error) {
	var buf bytes.Buffer
	if err := HTML(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}
