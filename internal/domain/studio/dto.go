package studio

import (
	"github.com/google/uuid"

	"github.com/trackroom/trackroom-api/internal/domain/booking"
)

// StudioResponse represents a studio returned to the client
type StudioResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	City        string    `json:"city,omitempty"`
	Address     string    `json:"address,omitempty"`
	HourlyRate  float64   `json:"hourly_rate"`
	IsActive    bool      `json:"is_active"`
}

// ToResponse converts a Studio to its API shape
func ToResponse(s *Studio) *StudioResponse {
	return &StudioResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description.String,
		City:        s.City.String,
		Address:     s.Address.String,
		HourlyRate:  s.HourlyRate,
		IsActive:    s.IsActive,
	}
}

// SlotInfo is one offered start time on a day sheet
type SlotInfo struct {
	Start     string `json:"start"` // "10:00"
	End       string `json:"end"`   // "12:00"
	Available bool   `json:"available"`
}

// DaySheet is the availability view for a studio on one date
type DaySheet struct {
	StudioID uuid.UUID  `json:"studio_id"`
	Date     string     `json:"date"`
	Hours    int        `json:"hours"`
	Slots    []SlotInfo `json:"slots"`
}

// QuoteResponse pairs a price quote with the inputs it was computed from
type QuoteResponse struct {
	StudioID   uuid.UUID     `json:"studio_id"`
	Hours      int           `json:"hours"`
	HourlyRate float64       `json:"hourly_rate"`
	Quote      booking.Quote `json:"quote"`
}
