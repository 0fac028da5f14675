package rentals

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/quote", h.Quote)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/preview", h.Preview)
	r.Get("/{id}/pdf", h.PDF)
	r.Post("/{id}/pdf/merge", h.Merge)
}
