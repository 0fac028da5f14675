package render

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/odyssey-erp/rentaldesk/internal/document"
)

// PreviewRenderer writes a printable HTML page for the browser.
type PreviewRenderer struct {
	layout   *HTMLLayout
	observer Observer
}

// NewPreviewRenderer constructs a PreviewRenderer. observer may be nil.
func NewPreviewRenderer(layout *HTMLLayout, observer Observer) *PreviewRenderer {
	if observer == nil {
		observer = nopObserver{}
	}
	return &PreviewRenderer{layout: layout, observer: observer}
}

// Render writes the preview of doc to w. Nothing is written when rendering
// fails.
func (p *PreviewRenderer) Render(w io.Writer, doc document.Document) (err error) {
	started := time.Now()
	defer func() { p.observer.ObserveDocument(string(doc.Kind), BackendPreview, started, err) }()

	var buf bytes.Buffer
	if err = p.layout.Write(&buf, doc, BackendPreview, false); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
