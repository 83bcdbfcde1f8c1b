package studio

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trackroom/trackroom-api/internal/domain/booking"
	"github.com/trackroom/trackroom-api/internal/pkg/response"
)

// Quoter prices a candidate session (implemented by the booking service)
type Quoter interface {
	Quote(ctx context.Context, studioID uuid.UUID, hours int) (*booking.Quote, error)
}

// Handler handles studio HTTP requests
type Handler struct {
	service *Service
	quoter  Quoter
}

// NewHandler creates studio handler
func NewHandler(service *Service, quoter Quoter) *Handler {
	return &Handler{service: service, quoter: quoter}
}

// List handles GET /api/v1/studios
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	studios, total, err := h.service.List(r.Context(), city, limit, (page-1)*limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*StudioResponse, len(studios))
	for i, s := range studios {
		items[i] = ToResponse(s)
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, items, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// Get handles GET /api/v1/studios/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid studio id")
		return
	}

	studio, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ToResponse(studio))
}

// Availability handles GET /api/v1/studios/{id}/availability?date=YYYY-MM-DD&hours=N
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid studio id")
		return
	}

	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	if hours == 0 {
		hours = 2
	}

	sheet, err := h.service.DaySheet(r.Context(), id, r.URL.Query().Get("date"), hours)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, sheet)
}

// Quote handles GET /api/v1/studios/{id}/quote?hours=N
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid studio id")
		return
	}

	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	if hours == 0 {
		hours = 2
	}

	quote, err := h.quoter.Quote(r.Context(), id, hours)
	if err != nil {
		h.writeError(w, err)
		return
	}

	studio, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, &QuoteResponse{
		StudioID:   id,
		Hours:      hours,
		HourlyRate: studio.HourlyRate,
		Quote:      *quote,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrStudioNotFound), errors.Is(err, booking.ErrStudioNotFound):
		response.NotFound(w, "Studio not found")
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidHours), errors.Is(err, booking.ErrInvalidInput):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}
