package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the booking router (all endpoints require auth)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/", h.Create)
		r.Get("/", h.ListMy)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/confirm", h.Confirm)
		r.Post("/{id}/cancel", h.Cancel)
		r.Post("/{id}/complete", h.Complete)
	})

	return r
}
