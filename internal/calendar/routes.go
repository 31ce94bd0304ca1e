package calendar

import "github.com/go-chi/chi/v5"

// MountRoutes registers calendar endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/calendar/events", h.List)
	r.Post("/calendar/events", h.Create)
}
