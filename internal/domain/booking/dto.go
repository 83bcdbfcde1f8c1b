package booking

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest represents a booking creation request.
// The candidate slot is a (date, start hour, session length) triple; the
// service derives the concrete interval from it.
type CreateBookingRequest struct {
	StudioID  uuid.UUID `json:"studio_id" validate:"required"`
	Date      string    `json:"date" validate:"required"` // YYYY-MM-DD
	StartHour int       `json:"start_hour" validate:"gte=0,lte=23"`
	Hours     int       `json:"hours" validate:"required,session_hours"`
	Notes     string    `json:"notes" validate:"max=500"`
}

// BookingResponse represents a booking returned to the client
type BookingResponse struct {
	ID          uuid.UUID `json:"id"`
	StudioID    uuid.UUID `json:"studio_id"`
	UserID      uuid.UUID `json:"user_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts a Booking to its API shape
func ToResponse(b *Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID,
		StudioID:    b.StudioID,
		UserID:      b.UserID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		TotalAmount: b.TotalAmount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Notes.Valid {
		resp.Notes = b.Notes.String
	}
	return resp
}
