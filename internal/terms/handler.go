package terms

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/rentaldesk/internal/platform/httpx"
	"github.com/odyssey-erp/rentaldesk/internal/shared"
)

// Auditor records configuration changes.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Handler exposes the terms settings endpoints.
type Handler struct {
	store  *Store
	audit  Auditor
	logger *slog.Logger
}

// NewHandler constructs the handler.
func NewHandler(store *Store, audit Auditor, logger *slog.Logger) *Handler {
	return &Handler{store: store, audit: audit, logger: logger}
}

// MountRoutes registers /settings/terms routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/settings/terms", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.put)
		r.Delete("/", h.reset)
		r.Get("/defaults", h.defaults)
	})
}

type termsResponse struct {
	Terms  ContractTerms `json:"terms"`
	Stored bool          `json:"stored"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, stored := h.store.Load(r.Context())
	httpx.JSON(w, http.StatusOK, termsResponse{Terms: t, Stored: stored})
}

func (h *Handler) defaults(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, termsResponse{Terms: Default()})
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	var req ContractTerms
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.store.Save(r.Context(), req); err != nil {
		h.logger.Error("save terms failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	h.record(r.Context(), "save")
	httpx.JSON(w, http.StatusOK, termsResponse{Terms: req, Stored: true})
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(r.Context()); err != nil {
		h.logger.Error("reset terms failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	h.record(r.Context(), "reset")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) record(ctx context.Context, op string) {
	if h.audit == nil {
		return
	}
	owner, _ := shared.OwnerFromContext(ctx)
	err := h.audit.Record(ctx, shared.AuditLog{
		Action:   shared.ActionTermsSet,
		Entity:   "contract_terms",
		EntityID: owner,
		Meta:     map[string]any{"op": op},
	})
	if err != nil {
		h.logger.Warn("audit terms failed", "error", err)
	}
}
