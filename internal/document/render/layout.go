// Package render turns a document.Document into an on-screen preview or a
// PDF. Both back-ends render the same HTML layout from the same page plan.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/view"
	"github.com/odyssey-erp/rentaldesk/web"
)

// Backend names used in metrics.
const (
	BackendPreview = "preview"
	BackendExport  = "export"
)

// Observer records document generation outcomes.
type Observer interface {
	ObserveDocument(kind, backend string, started time.Time, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveDocument(string, string, time.Time, error) {}

// HTMLLayout renders planned pages with the embedded document templates.
type HTMLLayout struct {
	engine *view.Engine
	css    template.CSS
	setup  document.PageSetup
}

// NewHTMLLayout parses the templates and loads the stylesheet.
func NewHTMLLayout(engine *view.Engine) (*HTMLLayout, error) {
	if engine == nil {
		var err error
		if engine, err = view.NewEngine(); err != nil {
			return nil, fmt.Errorf("parse document templates: %w", err)
		}
	}
	css, err := web.DocumentCSS()
	if err != nil {
		return nil, fmt.Errorf("load document stylesheet: %w", err)
	}
	return &HTMLLayout{engine: engine, css: template.CSS(css), setup: document.A4Export()}, nil
}

// pageSet is the template payload of documents/document.html.
type pageSet struct {
	Pages     []document.Page
	PageCount int
}

// Plan computes the page plan shared by every back-end.
func (l *HTMLLayout) Plan(doc document.Document) []document.Page {
	return document.Plan(doc, l.setup)
}

// Write renders doc. inline embeds the stylesheet, which PDF conversion
// needs because the converter cannot fetch /static.
func (l *HTMLLayout) Write(w io.Writer, doc document.Document, mode string, inline bool) error {
	pages := l.Plan(doc)
	data := view.TemplateData{
		Title: doc.Title,
		Mode:  mode,
		Data:  pageSet{Pages: pages, PageCount: len(pages)},
	}
	if inline {
		data.InlineCSS = l.css
	}
	return l.engine.Execute(w, "documents/document.html", data)
}

// String renders doc into a string.
func (l *HTMLLayout) String(doc document.Document, mode string, inline bool) (string, error) {
	var buf bytes.Buffer
	if err := l.Write(&buf, doc, mode, inline); err != nil {
		return "", err
	}
	return buf.String(), nil
}
