// Package pdf renders invoice HTML and converts it to PDF bytes.
package pdf

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders a named template with the given context to HTML.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// Converter turns an HTML document into PDF bytes.
// A timeout imposed through ctx is reported as a rendering failure.
type Converter interface {
	Convert(ctx context.Context, html string) ([]byte, error)
}

// TemplateRenderer renders the embedded invoice templates.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("pdf: parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

func (r *TemplateRenderer) Render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := r.tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("pdf: render %s: %w", name, err)
	}
	return sb.String(), nil
}
