package booking

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents booking lifecycle state
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Actor identifies who is requesting a transition
type Actor string

const (
	ActorRequester Actor = "requester"
	ActorOwner     Actor = "owner"
	ActorSystem    Actor = "system"
)

// Booking represents a studio rental request
type Booking struct {
	ID       uuid.UUID `db:"id" json:"id"`
	StudioID uuid.UUID `db:"studio_id" json:"studio_id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`

	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`

	Status      Status         `db:"status" json:"status"`
	TotalAmount float64        `db:"total_amount" json:"total_amount"`
	Notes       sql.NullString `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Duration returns the booked session length
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// IsTerminal returns true when no further transition is expected.
// CONFIRMED still allows a late cancellation, so only CANCELLED and
// COMPLETED are terminal.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// transitionRule describes one legal edge of the lifecycle
type transitionRule struct {
	from   Status
	to     Status
	actors []Actor
	guard  func(b *Booking, now time.Time) error
}

// transitionRules is the single authoritative transition table.
var transitionRules = []transitionRule{
	{
		from:   StatusPending,
		to:     StatusConfirmed,
		actors: []Actor{ActorOwner},
	},
	{
		from:   StatusPending,
		to:     StatusCancelled,
		actors: []Actor{ActorOwner, ActorRequester},
	},
	{
		from:   StatusConfirmed,
		to:     StatusCancelled,
		actors: []Actor{ActorRequester},
		guard: func(b *Booking, now time.Time) error {
			if !b.StartTime.After(now) {
				return fmt.Errorf("%w: confirmed booking can only be cancelled before it starts", ErrInvalidTransition)
			}
			return nil
		},
	},
	{
		from:   StatusPending,
		to:     StatusCompleted,
		actors: []Actor{ActorOwner, ActorSystem},
		guard:  guardEnded,
	},
	{
		from:   StatusConfirmed,
		to:     StatusCompleted,
		actors: []Actor{ActorOwner, ActorSystem},
		guard:  guardEnded,
	},
}

func guardEnded(b *Booking, now time.Time) error {
	if b.EndTime.After(now) {
		return fmt.Errorf("%w: booking can only be completed after its end time", ErrInvalidTransition)
	}
	return nil
}

// ValidateTransition checks whether the booking may move to target when
// requested by actor at time now. A transition to the current status is
// treated as an idempotent retry and allowed.
func ValidateTransition(b *Booking, target Status, actor Actor, now time.Time) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	if b.Status == target {
		return nil
	}

	for _, rule := range transitionRules {
		if rule.from != b.Status || rule.to != target {
			continue
		}
		if !actorAllowed(rule.actors, actor) {
			continue
		}
		if rule.guard != nil {
			return rule.guard(b, now)
		}
		return nil
	}

	return fmt.Errorf("%w: %s -> %s is not allowed for %s", ErrInvalidTransition, b.Status, target, actor)
}

func actorAllowed(allowed []Actor, actor Actor) bool {
	for _, a := range allowed {
		if a == actor {
			return true
		}
	}
	return false
}
