package studio

import "github.com/go-chi/chi/v5"

// Routes returns the public studio router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/availability", h.Availability)
	r.Get("/{id}/quote", h.Quote)

	return r
}
