package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
)

const (
	// MergeFileField is the multipart field carrying an uploaded document.
	MergeFileField = "document"
	// MergeAttachmentField references a stored attachment instead.
	MergeAttachmentField = "attachment_id"
	// MergeErrorHeader explains why a standalone fallback was served.
	MergeErrorHeader = "X-Merge-Error"
)

// AttachmentOpener reads stored attachments of the current owner.
type AttachmentOpener interface {
	Open(ctx context.Context, id int64) (io.ReadCloser, error)
}

// Responder serves documents over HTTP.
type Responder struct {
	preview     *PreviewRenderer
	export      *ExportRenderer
	attachments AttachmentOpener
	logger      *slog.Logger
}

// NewResponder wires the renderers. attachments may be nil, in which case
// merging by attachment id is rejected.
func NewResponder(preview *PreviewRenderer, export *ExportRenderer, attachments AttachmentOpener, logger *slog.Logger) *Responder {
	return &Responder{preview: preview, export: export, attachments: attachments, logger: logger}
}

// Preview writes the printable HTML page.
func (d *Responder) Preview(w http.ResponseWriter, r *http.Request, doc document.Document) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := d.preview.Render(w, doc); err != nil {
		d.logger.Error("render preview failed", "error", err, "document", doc.Number)
		httpx.RespondError(w, err)
		return err
	}
	return nil
}

// PDF writes the exported file as a download.
func (d *Responder) PDF(w http.ResponseWriter, r *http.Request, doc document.Document) error {
	pdf, err := d.export.Render(r.Context(), doc)
	if err != nil {
		d.logger.Error("export pdf failed", "error", err, "document", doc.Number)
		httpx.RespondError(w, err)
		return err
	}
	httpx.Download(w, "application/pdf", doc.FileName, pdf)
	return nil
}

// Merge exports doc and appends the uploaded or stored document. With
// ?fallback=standalone an unusable input yields the generated PDF alone and
// the reason in the X-Merge-Error header.
func (d *Responder) Merge(w http.ResponseWriter, r *http.Request, doc document.Document) error {
	external, err := d.mergeInput(r)
	if err != nil {
		httpx.RespondError(w, err)
		return err
	}
	defer external.Close()

	generated, err := d.export.Render(r.Context(), doc)
	if err != nil {
		d.logger.Error("export pdf failed", "error", err, "document", doc.Number)
		httpx.RespondError(w, err)
		return err
	}

	merged, err := d.export.Merge(r.Context(), generated, external)
	if err != nil {
		if errors.Is(err, ErrMergeInput) && r.URL.Query().Get("fallback") == "standalone" {
			d.logger.Warn("merge input rejected, serving standalone pdf", "error", err, "document", doc.Number)
			w.Header().Set(MergeErrorHeader, err.Error())
			httpx.Download(w, "application/pdf", doc.FileName, generated)
			return nil
		}
		d.logger.Warn("merge pdf failed", "error", err, "document", doc.Number)
		httpx.RespondError(w, err)
		return err
	}
	httpx.Download(w, "application/pdf", doc.FileName, merged)
	return nil
}

func (d *Responder) mergeInput(r *http.Request) (io.ReadCloser, error) {
	if err := r.ParseMultipartForm(d.export.MaxMergeBytes); err != nil {
		return nil, fmt.Errorf("%w: multipart form expected: %v", httpx.ErrValidation, err)
	}
	if file, _, err := r.FormFile(MergeFileField); err == nil {
		return file, nil
	}
	raw := r.FormValue(MergeAttachmentField)
	if raw == "" {
		return nil, fmt.Errorf("%w: %s file or %s required", httpx.ErrValidation, MergeFileField, MergeAttachmentField)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: invalid %s", httpx.ErrValidation, MergeAttachmentField)
	}
	if d.attachments == nil {
		return nil, fmt.Errorf("%w: attachment storage not configured", httpx.ErrUnavailable)
	}
	return d.attachments.Open(r.Context(), id)
}
