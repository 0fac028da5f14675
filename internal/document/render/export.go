package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
	"github.com/odyssey-erp/rentaldesk/internal/view"
	"github.com/odyssey-erp/rentaldesk/report"
)

// DefaultMaxMergeBytes caps the external document accepted by Merge.
const DefaultMaxMergeBytes = 10 << 20

// A4 at 200 dpi.
const (
	scanMaxWidth  = 1654
	scanMaxHeight = 2339
)

var (
	// ErrGeneration is returned when the PDF back-end fails.
	ErrGeneration = fmt.Errorf("%w: pdf generation failed", httpx.ErrUnavailable)
	// ErrMergeInput is returned when the external document cannot be merged.
	// The generated document is left untouched.
	ErrMergeInput = fmt.Errorf("%w: merge input rejected", httpx.ErrUnprocessable)
)

// Converter is the PDF back-end.
type Converter interface {
	ConvertHTML(ctx context.Context, html string, opts report.PageOptions) ([]byte, error)
	Merge(ctx context.Context, files ...report.File) ([]byte, error)
}

// ExportRenderer produces PDF files.
type ExportRenderer struct {
	layout        *HTMLLayout
	converter     Converter
	observer      Observer
	MaxMergeBytes int64
}

// NewExportRenderer constructs an ExportRenderer. observer may be nil.
func NewExportRenderer(layout *HTMLLayout, converter Converter, observer Observer) *ExportRenderer {
	if observer == nil {
		observer = nopObserver{}
	}
	return &ExportRenderer{layout: layout, converter: converter, observer: observer, MaxMergeBytes: DefaultMaxMergeBytes}
}

func pageOptions(setup document.PageSetup) report.PageOptions {
	margin := setup.MarginInches()
	return report.PageOptions{
		PaperWidth:      setup.WidthInches(),
		PaperHeight:     setup.HeightInches(),
		MarginTop:       margin,
		MarginBottom:    margin,
		MarginLeft:      margin,
		MarginRight:     margin,
		PrintBackground: true,
	}
}

// Render converts doc to PDF bytes.
func (e *ExportRenderer) Render(ctx context.Context, doc document.Document) (pdf []byte, err error) {
	started := time.Now()
	defer func() { e.observer.ObserveDocument(string(doc.Kind), BackendExport, started, err) }()

	html, err := e.layout.String(doc, BackendExport, true)
	if err != nil {
		return nil, fmt.Errorf("render export html: %w", err)
	}
	pdf, err = e.converter.ConvertHTML(ctx, html, pageOptions(e.layout.setup))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return pdf, nil
}

// Merge appends an external PDF or image scan after the generated pages.
// Unsupported, oversized or unreadable input fails with ErrMergeInput.
func (e *ExportRenderer) Merge(ctx context.Context, generated []byte, external io.Reader) (merged []byte, err error) {
	started := time.Now()
	defer func() { e.observer.ObserveDocument("merge", BackendExport, started, err) }()

	limit := e.MaxMergeBytes
	if limit <= 0 {
		limit = DefaultMaxMergeBytes
	}
	data, err := io.ReadAll(io.LimitReader(external, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read merge input: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMergeInput)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrMergeInput, limit)
	}

	var attachment []byte
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/pdf"):
		attachment = data
	case mt.Is("image/jpeg"), mt.Is("image/png"):
		if attachment, err = e.scanToPDF(ctx, data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unsupported type %s", ErrMergeInput, mt.String())
	}

	merged, err = e.converter.Merge(ctx,
		report.File{Name: "contract.pdf", Data: generated},
		report.File{Name: "attachment.pdf", Data: attachment},
	)
	if err != nil {
		var statusErr *report.StatusError
		if errors.As(err, &statusErr) && statusErr.ClientError() {
			return nil, fmt.Errorf("%w: %v", ErrMergeInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return merged, nil
}

// scanToPDF normalises a photographed or scanned page and converts it to a
// one page PDF.
func (e *ExportRenderer) scanToPDF(ctx context.Context, data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable image: %v", ErrMergeInput, err)
	}
	img = imaging.Fit(img, scanMaxWidth, scanMaxHeight, imaging.Lanczos)

	var jpeg bytes.Buffer
	if err := imaging.Encode(&jpeg, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode scan: %w", err)
	}
	uri := template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg.Bytes()))

	var html bytes.Buffer
	if err := e.layout.engine.Execute(&html, "documents/scan.html", view.TemplateData{Data: uri}); err != nil {
		return nil, fmt.Errorf("render scan page: %w", err)
	}
	opts := pageOptions(document.PageSetup{Width: 210, Height: 297, Margin: 10})
	pdf, err := e.converter.ConvertHTML(ctx, html.String(), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return pdf, nil
}
