package attachments

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/rentaldesk/internal/masterdata/shared"
	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
)

// FileField is the multipart field carrying the upload.
const FileField = "file"

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Upload)
	r.Get("/{id}", h.Download)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ref, err := shared.ParseID(r.URL.Query().Get("owner_id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items, err := h.service.List(r.Context(), OwnerType(r.URL.Query().Get("owner_type")), ref)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Attachment{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		httpx.RespondError(w, ErrTooLarge)
		return
	}
	file, header, err := r.FormFile(FileField)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "file field is required")
		return
	}
	defer file.Close()

	ref, err := strconv.ParseInt(r.FormValue("owner_id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrInvalidID)
		return
	}
	created, err := h.service.Upload(r.Context(), OwnerType(r.FormValue("owner_type")), ref, header.Filename, file)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) && !errors.Is(err, httpx.ErrUnprocessable) {
			h.logger.Error("upload attachment failed", "error", err)
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	a, data, err := h.service.Read(r.Context(), id)
	if err != nil {
		h.logger.Warn("download attachment failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.Download(w, a.ContentType, a.FileName, data)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logger.Warn("delete attachment failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
