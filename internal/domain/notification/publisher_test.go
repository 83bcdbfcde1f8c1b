package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/trackroom/trackroom-api/internal/domain/booking"
)

type fakeSender struct {
	sent []sentEvent
	err  error
}

type sentEvent struct {
	userID uuid.UUID
	event  *Event
}

func (f *fakeSender) Publish(ctx context.Context, userID uuid.UUID, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEvent{userID: userID, event: payload.(*Event)})
	return nil
}

func TestPublisherBookingCreated(t *testing.T) {
	sender := &fakeSender{}
	p := NewPublisher(sender)

	ownerID := uuid.New()
	b := &booking.Booking{ID: uuid.New(), UserID: uuid.New(), Status: booking.StatusPending}

	p.BookingCreated(context.Background(), b, ownerID)

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d events, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.userID != ownerID {
		t.Errorf("new requests go to the owner, got %s", got.userID)
	}
	if got.event.Type != EventBookingRequested {
		t.Errorf("event type: got %s", got.event.Type)
	}
	if got.event.Booking.ID != b.ID {
		t.Errorf("event carries wrong booking")
	}
}

func TestPublisherStatusChangeRouting(t *testing.T) {
	ownerID := uuid.New()
	requesterID := uuid.New()
	b := &booking.Booking{ID: uuid.New(), UserID: requesterID, Status: booking.StatusConfirmed}

	tests := []struct {
		name  string
		actor booking.Actor
		want  uuid.UUID
	}{
		{name: "requester change notifies owner", actor: booking.ActorRequester, want: ownerID},
		{name: "owner change notifies requester", actor: booking.ActorOwner, want: requesterID},
		{name: "system change notifies requester", actor: booking.ActorSystem, want: requesterID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{}
			p := NewPublisher(sender)

			p.BookingStatusChanged(context.Background(), b, ownerID, tc.actor)

			if len(sender.sent) != 1 {
				t.Fatalf("sent %d events, want 1", len(sender.sent))
			}
			if sender.sent[0].userID != tc.want {
				t.Errorf("recipient: got %s, want %s", sender.sent[0].userID, tc.want)
			}
			if sender.sent[0].event.Type != EventBookingStatus {
				t.Errorf("event type: got %s", sender.sent[0].event.Type)
			}
		})
	}
}

func TestPublisherDeliveryFailureSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("hub shut down")}
	p := NewPublisher(sender)

	b := &booking.Booking{ID: uuid.New(), UserID: uuid.New(), Status: booking.StatusPending}

	// Must not panic or surface the error
	p.BookingCreated(context.Background(), b, uuid.New())
	p.BookingStatusChanged(context.Background(), b, uuid.New(), booking.ActorOwner)
}
