package entries

import "github.com/go-chi/chi/v5"

// MountRoutes registers entry listing endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/channels/{channel}/entries", h.List)
	r.Post("/channels/{channel}/entries", h.Create)
}
