package booking

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTransitionTable(t *testing.T) {
	now := mustTime("2024-06-01 12:00")
	past := mkBooking(StatusConfirmed, "2024-06-01 08:00", "2024-06-01 10:00")
	future := mkBooking(StatusConfirmed, "2024-06-01 15:00", "2024-06-01 17:00")

	tests := []struct {
		name    string
		booking *Booking
		target  Status
		actor   Actor
		wantErr bool
	}{
		{name: "owner confirms pending", booking: &Booking{Status: StatusPending}, target: StatusConfirmed, actor: ActorOwner},
		{name: "requester cannot confirm", booking: &Booking{Status: StatusPending}, target: StatusConfirmed, actor: ActorRequester, wantErr: true},
		{name: "owner rejects pending", booking: &Booking{Status: StatusPending}, target: StatusCancelled, actor: ActorOwner},
		{name: "requester cancels pending", booking: &Booking{Status: StatusPending}, target: StatusCancelled, actor: ActorRequester},
		{name: "requester late-cancels future confirmed", booking: future, target: StatusCancelled, actor: ActorRequester},
		{name: "requester cannot cancel started confirmed", booking: past, target: StatusCancelled, actor: ActorRequester, wantErr: true},
		{name: "owner cannot cancel confirmed", booking: future, target: StatusCancelled, actor: ActorOwner, wantErr: true},
		{name: "owner completes ended confirmed", booking: past, target: StatusCompleted, actor: ActorOwner},
		{name: "system completes ended confirmed", booking: past, target: StatusCompleted, actor: ActorSystem},
		{name: "cannot complete before end", booking: future, target: StatusCompleted, actor: ActorOwner, wantErr: true},
		{name: "cancelled is terminal", booking: &Booking{Status: StatusCancelled}, target: StatusConfirmed, actor: ActorOwner, wantErr: true},
		{name: "completed cannot be cancelled", booking: &Booking{Status: StatusCompleted}, target: StatusCancelled, actor: ActorOwner, wantErr: true},
		{name: "unknown status rejected", booking: &Booking{Status: StatusPending}, target: Status("archived"), actor: ActorOwner, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.booking, tc.target, tc.actor, now)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestValidateTransitionIdempotent(t *testing.T) {
	b := &Booking{Status: StatusConfirmed}
	if err := ValidateTransition(b, StatusConfirmed, ActorOwner, time.Now()); err != nil {
		t.Fatalf("transition to current status must be a no-op success, got %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	cases := map[Status]bool{
		StatusPending:   false,
		StatusConfirmed: false,
		StatusCancelled: true,
		StatusCompleted: true,
	}
	for status, want := range cases {
		b := &Booking{Status: status}
		if got := b.IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s): got %v, want %v", status, got, want)
		}
	}
}
