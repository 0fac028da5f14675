package invoices

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	logger  *slog.Logger
	service *Service
	now     func() time.Time
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export.xlsx", h.Export)
}

func filtersFromRequest(r *http.Request) Filters {
	q := r.URL.Query()
	var f Filters
	if d, err := time.Parse(time.DateOnly, q.Get("from")); err == nil {
		f.From = &d
	}
	if d, err := time.Parse(time.DateOnly, q.Get("to")); err == nil {
		f.To = &d
	}
	f.Status = q.Get("status")
	f.ClientID, _ = strconv.ParseInt(q.Get("client_id"), 10, 64)
	return f
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.List(r.Context(), filtersFromRequest(r))
	if err != nil {
		h.logger.Error("list invoices failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listing)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportXLSX(r.Context(), filtersFromRequest(r), &buf); err != nil {
		h.logger.Error("export invoices failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Download(w, xlsxContentType, "invoices-"+h.now().Format("20060102")+".xlsx", buf.Bytes())
}
