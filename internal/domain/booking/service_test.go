package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	bookings    map[uuid.UUID]*Booking
	createCalls int
	updateCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[uuid.UUID]*Booking{}}
}

func (f *fakeRepo) Create(ctx context.Context, b *Booking) error {
	f.createCalls++
	copyB := *b
	f.bookings[b.ID] = &copyB
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	if b, ok := f.bookings[id]; ok {
		copyB := *b
		return &copyB, nil
	}
	return nil, nil
}

func (f *fakeRepo) ListByStudioAndDate(ctx context.Context, studioID uuid.UUID, day time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.StudioID == studioID && sameDate(b.StartTime, day) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Booking, error) {
	f.updateCalls++
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	copyB := *b
	return &copyB, nil
}

type fakeStudios struct {
	studios map[uuid.UUID]*StudioInfo
}

func (f *fakeStudios) GetStudioInfo(ctx context.Context, id uuid.UUID) (*StudioInfo, error) {
	return f.studios[id], nil
}

type recordingNotifier struct {
	created []uuid.UUID // owner ids notified of new requests
	changed []Status
}

func (n *recordingNotifier) BookingCreated(ctx context.Context, b *Booking, ownerID uuid.UUID) {
	n.created = append(n.created, ownerID)
}

func (n *recordingNotifier) BookingStatusChanged(ctx context.Context, b *Booking, ownerID uuid.UUID, actor Actor) {
	n.changed = append(n.changed, b.Status)
}

func testConfig() Config {
	return Config{
		ServiceFeeRate: 0.10,
		OpenHour:       9,
		CloseHour:      23,
		SessionHours:   []int{2, 4, 8},
	}
}

func newTestService(repo Repository, studios StudioProvider) *Service {
	return NewService(repo, studios, testConfig())
}

func activeStudio(rate float64) (*fakeStudios, uuid.UUID, uuid.UUID) {
	studioID := uuid.New()
	ownerID := uuid.New()
	return &fakeStudios{studios: map[uuid.UUID]*StudioInfo{
		studioID: {ID: studioID, OwnerID: ownerID, HourlyRate: rate, IsActive: true},
	}}, studioID, ownerID
}

func TestCreateBooking(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, ownerID := activeStudio(50)
	notifier := &recordingNotifier{}

	svc := newTestService(repo, studios)
	svc.SetNotifier(notifier)

	userID := uuid.New()
	b, err := svc.Create(context.Background(), userID, &CreateBookingRequest{
		StudioID:  studioID,
		Date:      "2024-06-01",
		StartHour: 10,
		Hours:     2,
		Notes:     "vocal session",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if b.Status != StatusPending {
		t.Errorf("status: got %s, want pending", b.Status)
	}
	if b.TotalAmount != 110.00 {
		t.Errorf("total: got %v, want 110.00", b.TotalAmount)
	}
	if b.EndTime.Sub(b.StartTime) != 2*time.Hour {
		t.Errorf("duration: got %v, want 2h", b.EndTime.Sub(b.StartTime))
	}
	if len(notifier.created) != 1 || notifier.created[0] != ownerID {
		t.Errorf("owner must be notified of the new request")
	}
}

func TestCreateBookingConflict(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, _ := activeStudio(50)
	svc := newTestService(repo, studios)

	req := &CreateBookingRequest{StudioID: studioID, Date: "2024-06-01", StartHour: 10, Hours: 2}

	if _, err := svc.Create(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(context.Background(), uuid.New(), req)
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if repo.createCalls != 1 {
		t.Errorf("conflicting create must not write: %d writes", repo.createCalls)
	}
}

func TestCreateBookingCancelledSlotReusable(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, _ := activeStudio(50)
	svc := newTestService(repo, studios)

	req := &CreateBookingRequest{StudioID: studioID, Date: "2024-06-01", StartHour: 10, Hours: 2}

	first, err := svc.Create(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	repo.bookings[first.ID].Status = StatusCancelled

	if _, err := svc.Create(context.Background(), uuid.New(), req); err != nil {
		t.Fatalf("cancelled booking must release the slot: %v", err)
	}
}

func TestCreateBookingStudioChecks(t *testing.T) {
	repo := newFakeRepo()
	studioID := uuid.New()
	studios := &fakeStudios{studios: map[uuid.UUID]*StudioInfo{
		studioID: {ID: studioID, OwnerID: uuid.New(), HourlyRate: 50, IsActive: false},
	}}
	svc := newTestService(repo, studios)

	_, err := svc.Create(context.Background(), uuid.New(), &CreateBookingRequest{
		StudioID: studioID, Date: "2024-06-01", StartHour: 10, Hours: 2,
	})
	if !errors.Is(err, ErrStudioInactive) {
		t.Fatalf("expected ErrStudioInactive, got %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), &CreateBookingRequest{
		StudioID: uuid.New(), Date: "2024-06-01", StartHour: 10, Hours: 2,
	})
	if !errors.Is(err, ErrStudioNotFound) {
		t.Fatalf("expected ErrStudioNotFound, got %v", err)
	}
}

func TestCreateBookingRejectsBadSlots(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, _ := activeStudio(50)
	svc := newTestService(repo, studios)

	tests := []struct {
		name string
		req  CreateBookingRequest
	}{
		{name: "session length not offered", req: CreateBookingRequest{StudioID: studioID, Date: "2024-06-01", StartHour: 10, Hours: 3}},
		{name: "before opening", req: CreateBookingRequest{StudioID: studioID, Date: "2024-06-01", StartHour: 7, Hours: 2}},
		{name: "runs past closing", req: CreateBookingRequest{StudioID: studioID, Date: "2024-06-01", StartHour: 22, Hours: 4}},
		{name: "bad date", req: CreateBookingRequest{StudioID: studioID, Date: "01.06.2024", StartHour: 10, Hours: 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), &tc.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if repo.createCalls != 0 {
		t.Errorf("invalid requests must not write: %d writes", repo.createCalls)
	}
}

func TestTransitionConfirm(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, ownerID := activeStudio(50)
	notifier := &recordingNotifier{}

	svc := newTestService(repo, studios)
	svc.SetNotifier(notifier)

	b, err := svc.Create(context.Background(), uuid.New(), &CreateBookingRequest{
		StudioID: studioID, Date: "2024-06-01", StartHour: 10, Hours: 2,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	confirmed, err := svc.Transition(context.Background(), b.ID, StatusConfirmed, ownerID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Errorf("status: got %s, want confirmed", confirmed.Status)
	}

	// Retrying the same transition is a no-op success
	again, err := svc.Transition(context.Background(), b.ID, StatusConfirmed, ownerID)
	if err != nil {
		t.Fatalf("idempotent confirm failed: %v", err)
	}
	if again.Status != StatusConfirmed {
		t.Errorf("status after retry: got %s, want confirmed", again.Status)
	}
	if repo.updateCalls != 1 {
		t.Errorf("retry must not write again: %d updates", repo.updateCalls)
	}
}

func TestTransitionAuthorization(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, ownerID := activeStudio(50)
	svc := newTestService(repo, studios)

	requester := uuid.New()
	b, err := svc.Create(context.Background(), requester, &CreateBookingRequest{
		StudioID: studioID, Date: "2024-06-01", StartHour: 10, Hours: 2,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A stranger may not touch the booking
	if _, err := svc.Transition(context.Background(), b.ID, StatusCancelled, uuid.New()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	// The requester may not confirm their own booking
	if _, err := svc.Transition(context.Background(), b.ID, StatusConfirmed, requester); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// The owner rejects it
	rejected, err := svc.Transition(context.Background(), b.ID, StatusCancelled, ownerID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != StatusCancelled {
		t.Errorf("status: got %s, want cancelled", rejected.Status)
	}
}

func TestTransitionFromCompleted(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, ownerID := activeStudio(50)
	svc := newTestService(repo, studios)

	id := uuid.New()
	repo.bookings[id] = &Booking{
		ID:        id,
		StudioID:  studioID,
		UserID:    uuid.New(),
		StartTime: mustTime("2024-06-01 10:00"),
		EndTime:   mustTime("2024-06-01 12:00"),
		Status:    StatusCompleted,
	}

	_, err := svc.Transition(context.Background(), id, StatusCancelled, ownerID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestQuoteUsesStudioRate(t *testing.T) {
	studios, studioID, _ := activeStudio(75)
	svc := newTestService(newFakeRepo(), studios)

	quote, err := svc.Quote(context.Background(), studioID, 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if quote.Subtotal != 300.00 || quote.ServiceFee != 30.00 || quote.Total != 330.00 {
		t.Errorf("quote: got %+v, want 300/30/330", quote)
	}

	if _, err := svc.Quote(context.Background(), studioID, 3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unoffered length, got %v", err)
	}
}

func TestGetForUser(t *testing.T) {
	repo := newFakeRepo()
	studios, studioID, ownerID := activeStudio(50)
	svc := newTestService(repo, studios)

	requester := uuid.New()
	b, err := svc.Create(context.Background(), requester, &CreateBookingRequest{
		StudioID: studioID, Date: "2024-06-01", StartHour: 10, Hours: 2,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.GetForUser(context.Background(), b.ID, requester); err != nil {
		t.Errorf("requester must see own booking: %v", err)
	}
	if _, err := svc.GetForUser(context.Background(), b.ID, ownerID); err != nil {
		t.Errorf("owner must see studio booking: %v", err)
	}
	if _, err := svc.GetForUser(context.Background(), b.ID, uuid.New()); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("stranger must be rejected, got %v", err)
	}
}
