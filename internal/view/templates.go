// Package view parses the embedded document templates.
package view

import (
	"errors"
	"html/template"
	"io"

	"github.com/odyssey-erp/rentaldesk/web"
)

const documentTemplates = "templates/documents/*.html"

var errNoEngine = errors.New("template engine not initialised")

// TemplateData is the root value handed to every document template.
type TemplateData struct {
	Title string
	// Mode is "preview" for the on-screen page or "export" for PDF input.
	Mode string
	// InlineCSS is embedded in a <style> element; when empty the page links
	// the stylesheet instead.
	InlineCSS template.CSS
	Data      any
}

// Engine holds the parsed template set.
type Engine struct {
	set *template.Template
}

// NewEngine parses the embedded templates once at startup.
func NewEngine() (*Engine, error) {
	set, err := template.New("documents").
		Funcs(template.FuncMap{"minus": func(a, b int) int { return a - b }}).
		ParseFS(web.Templates, documentTemplates)
	if err != nil {
		return nil, err
	}
	return &Engine{set: set}, nil
}

// Execute writes template name to w.
func (e *Engine) Execute(w io.Writer, name string, data TemplateData) error {
	if e == nil || e.set == nil {
		return errNoEngine
	}
	return e.set.ExecuteTemplate(w, name, data)
}
