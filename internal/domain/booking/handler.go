package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/trackroom/trackroom-api/internal/middleware"
	"github.com/trackroom/trackroom-api/internal/pkg/response"
	"github.com/trackroom/trackroom-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/v1/bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	var req CreateBookingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, ToResponse(b))
}

// ListMy handles GET /api/v1/bookings
func (h *Handler) ListMy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	page, limit := parsePagination(r)

	bookings, total, err := h.service.ListByUser(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = ToResponse(b)
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

// Get handles GET /api/v1/bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.GetForUser(r.Context(), bookingID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ToResponse(b))
}

// Confirm handles POST /api/v1/bookings/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusConfirmed)
}

// Cancel handles POST /api/v1/bookings/{id}/cancel
// Doubles as the owner's reject and the requester's cancellation.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusCancelled)
}

// Complete handles POST /api/v1/bookings/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusCompleted)
}

// ListForStudio handles GET /api/v1/studios/{id}/bookings?date=YYYY-MM-DD
func (h *Handler) ListForStudio(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	studioID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid studio id")
		return
	}

	day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	bookings, err := h.service.ListForStudioDay(r.Context(), studioID, userID, day)
	if err != nil {
		h.writeError(w, err)
		return
	}

	items := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = ToResponse(b)
	}
	response.OK(w, items)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, target Status) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.Transition(r.Context(), bookingID, target, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ToResponse(b))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrStudioNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrSlotUnavailable):
		response.Conflict(w, ErrSlotUnavailable.Error())
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrStudioInactive):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, ErrNotAuthorized.Error())
	default:
		response.InternalError(w)
	}
}

func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
