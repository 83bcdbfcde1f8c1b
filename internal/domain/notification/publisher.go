package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/trackroom/trackroom-api/internal/domain/booking"
)

// Event types pushed over the socket
const (
	EventBookingRequested EventType = "booking:requested"
	EventBookingStatus    EventType = "booking:status"
)

type EventType string

// Event is the wire shape of a booking lifecycle notification
type Event struct {
	Type    EventType                `json:"type"`
	Booking *booking.BookingResponse `json:"booking"`
}

type eventSender interface {
	Publish(ctx context.Context, userID uuid.UUID, payload interface{}) error
}

// Publisher implements booking.Notifier on top of the hub. Delivery is best
// effort: failures are logged, never surfaced to the booking flow.
type Publisher struct {
	sender eventSender
}

// NewPublisher creates a booking event publisher
func NewPublisher(sender eventSender) *Publisher {
	return &Publisher{sender: sender}
}

// BookingCreated notifies the studio owner of a new request
func (p *Publisher) BookingCreated(ctx context.Context, b *booking.Booking, ownerID uuid.UUID) {
	p.publish(ctx, ownerID, &Event{Type: EventBookingRequested, Booking: booking.ToResponse(b)})
}

// BookingStatusChanged notifies the party that did not make the change
func (p *Publisher) BookingStatusChanged(ctx context.Context, b *booking.Booking, ownerID uuid.UUID, actor booking.Actor) {
	event := &Event{Type: EventBookingStatus, Booking: booking.ToResponse(b)}

	switch actor {
	case booking.ActorRequester:
		p.publish(ctx, ownerID, event)
	case booking.ActorOwner, booking.ActorSystem:
		p.publish(ctx, b.UserID, event)
	}
}

func (p *Publisher) publish(ctx context.Context, userID uuid.UUID, event *Event) {
	if p == nil || p.sender == nil {
		return
	}
	if err := p.sender.Publish(ctx, userID, event); err != nil {
		log.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("event", string(event.Type)).
			Msg("Failed to publish booking event")
	}
}
