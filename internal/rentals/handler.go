package rentals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/rentaldesk/internal/document"
	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
	rootshared "github.com/odyssey-erp/rentaldesk/internal/shared"
)

// DocumentResponder serves built documents.
type DocumentResponder interface {
	Preview(w http.ResponseWriter, r *http.Request, doc document.Document) error
	PDF(w http.ResponseWriter, r *http.Request, doc document.Document) error
	Merge(w http.ResponseWriter, r *http.Request, doc document.Document) error
}

type Handler struct {
	logger    *slog.Logger
	service   *Service
	documents DocumentResponder
}

func NewHandler(logger *slog.Logger, service *Service, documents DocumentResponder) *Handler {
	return &Handler{logger: logger, service: service, documents: documents}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{ListFilters: shared.FiltersFromRequest(r)}
	q := r.URL.Query()
	filters.ClientID, _ = strconv.ParseInt(q.Get("client_id"), 10, 64)
	filters.VehicleID, _ = strconv.ParseInt(q.Get("vehicle_id"), 10, 64)
	if d, err := time.Parse(time.DateOnly, q.Get("from")); err == nil {
		filters.From = &d
	}
	if d, err := time.Parse(time.DateOnly, q.Get("to")); err == nil {
		filters.To = &d
	}

	contracts, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list rental contracts failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shared.NewListResponse(contracts, filters.ListFilters, total))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	contract, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("get rental contract failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contract)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), in, r.Header.Get(rootshared.IdempotencyHeader))
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("create rental contract failed", "error", err)
		}
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Location", "/rentals/"+strconv.FormatInt(created.ID, 10))
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var in QuoteInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	quote, err := h.service.Quote(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.logger.Warn("update rental contract failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete rental contract failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, rootshared.ActionPreview, h.documents.Preview)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, rootshared.ActionExport, h.documents.PDF)
}

func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, rootshared.ActionMerge, h.documents.Merge)
}

func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, action string, serve func(http.ResponseWriter, *http.Request, document.Document) error) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := h.service.Document(r.Context(), id)
	if err != nil {
		h.logger.Warn("build rental document failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	if err := serve(w, r, doc); err != nil {
		return
	}
	h.service.RecordDocument(r.Context(), action, id)
}
