package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StudioInfo is the slice of the studio record the booking core needs
type StudioInfo struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	HourlyRate float64
	IsActive   bool
}

// StudioProvider supplies studio lookups (implemented by the studio domain)
type StudioProvider interface {
	GetStudioInfo(ctx context.Context, id uuid.UUID) (*StudioInfo, error)
}

// Notifier publishes booking lifecycle events. Implementations must tolerate
// delivery failure; events are best effort.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking, ownerID uuid.UUID)
	BookingStatusChanged(ctx context.Context, b *Booking, ownerID uuid.UUID, actor Actor)
}

// AvailabilityInvalidator drops cached day sheets after a write
type AvailabilityInvalidator interface {
	InvalidateDay(ctx context.Context, studioID uuid.UUID, day time.Time)
}

// Config holds booking business parameters
type Config struct {
	ServiceFeeRate float64
	OpenHour       int   // first offered start hour
	CloseHour      int   // latest hour a session may end
	SessionHours   []int // allowed session lengths
}

// Service handles booking business logic
type Service struct {
	repo    Repository
	studios StudioProvider
	cfg     Config

	notifier Notifier
	cache    AvailabilityInvalidator
}

// NewService creates booking service
func NewService(repo Repository, studios StudioProvider, cfg Config) *Service {
	return &Service{repo: repo, studios: studios, cfg: cfg}
}

// SetNotifier sets the lifecycle event publisher (optional)
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// SetAvailabilityInvalidator sets the day-sheet cache invalidator (optional)
func (s *Service) SetAvailabilityInvalidator(c AvailabilityInvalidator) { s.cache = c }

// Create validates the candidate slot, prices it against the studio's current
// rate, checks availability and persists a PENDING booking. No partial state
// is written on any failure path.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*Booking, error) {
	start, end, err := s.resolveInterval(req)
	if err != nil {
		return nil, err
	}

	studio, err := s.studios.GetStudioInfo(ctx, req.StudioID)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}
	if !studio.IsActive {
		return nil, ErrStudioInactive
	}

	quote, err := ComputeQuote(studio.HourlyRate, req.Hours, s.cfg.ServiceFeeRate)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByStudioAndDate(ctx, req.StudioID, start)
	if err != nil {
		return nil, err
	}
	if !SlotAvailable(existing, start, end) {
		return nil, ErrSlotUnavailable
	}

	now := time.Now()
	b := &Booking{
		ID:          uuid.New(),
		StudioID:    req.StudioID,
		UserID:      userID,
		StartTime:   start,
		EndTime:     end,
		Status:      StatusPending,
		TotalAmount: quote.Total,
		Notes:       sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The exclusion constraint closes the check-then-act window left open
	// by the availability pre-check above.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, b.StudioID, b.StartTime)
	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, b, studio.OwnerID)
	}

	return b, nil
}

// Quote prices a candidate session against the studio's current rate
func (s *Service) Quote(ctx context.Context, studioID uuid.UUID, hours int) (*Quote, error) {
	if !s.sessionAllowed(hours) {
		return nil, fmt.Errorf("%w: session length %dh is not offered", ErrInvalidInput, hours)
	}

	studio, err := s.studios.GetStudioInfo(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}

	quote, err := ComputeQuote(studio.HourlyRate, hours, s.cfg.ServiceFeeRate)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Transition applies a status change on behalf of the given user. Re-applying
// the current status is a no-op success so that client retries are safe.
func (s *Service) Transition(ctx context.Context, bookingID uuid.UUID, target Status, userID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	studio, err := s.studios.GetStudioInfo(ctx, b.StudioID)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}

	actor, err := resolveActor(b, studio, userID)
	if err != nil {
		return nil, err
	}

	if b.Status == target {
		return b, nil
	}

	if err := ValidateTransition(b, target, actor, time.Now()); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, target)
	if err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, updated.StudioID, updated.StartTime)
	if s.notifier != nil {
		s.notifier.BookingStatusChanged(ctx, updated, studio.OwnerID, actor)
	}

	log.Info().
		Str("booking_id", bookingID.String()).
		Str("from", string(b.Status)).
		Str("to", string(target)).
		Str("actor", string(actor)).
		Msg("Booking transitioned")

	return updated, nil
}

// GetForUser returns a booking visible to the given user (requester or the
// studio's owner).
func (s *Service) GetForUser(ctx context.Context, bookingID, userID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if b.UserID == userID {
		return b, nil
	}

	studio, err := s.studios.GetStudioInfo(ctx, b.StudioID)
	if err != nil {
		return nil, err
	}
	if studio == nil || studio.OwnerID != userID {
		return nil, ErrNotAuthorized
	}
	return b, nil
}

// ListByUser returns the requester's bookings, newest first
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Booking, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ListForStudioDay returns a studio's bookings on the given day, owner only
func (s *Service) ListForStudioDay(ctx context.Context, studioID, userID uuid.UUID, day time.Time) ([]*Booking, error) {
	studio, err := s.studios.GetStudioInfo(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}
	if studio.OwnerID != userID {
		return nil, ErrNotAuthorized
	}
	return s.repo.ListByStudioAndDate(ctx, studioID, day)
}

func (s *Service) resolveInterval(req *CreateBookingRequest) (time.Time, time.Time, error) {
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if !s.sessionAllowed(req.Hours) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: session length %dh is not offered", ErrInvalidInput, req.Hours)
	}
	if req.StartHour < s.cfg.OpenHour || req.StartHour+req.Hours > s.cfg.CloseHour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: session must fit between %02d:00 and %02d:00",
			ErrInvalidInput, s.cfg.OpenHour, s.cfg.CloseHour)
	}

	start := day.Add(time.Duration(req.StartHour) * time.Hour)
	end := start.Add(time.Duration(req.Hours) * time.Hour)
	return start, end, nil
}

func (s *Service) sessionAllowed(hours int) bool {
	for _, h := range s.cfg.SessionHours {
		if hours == h {
			return true
		}
	}
	return false
}

func (s *Service) invalidateDay(ctx context.Context, studioID uuid.UUID, day time.Time) {
	if s.cache != nil {
		s.cache.InvalidateDay(ctx, studioID, day)
	}
}

func resolveActor(b *Booking, studio *StudioInfo, userID uuid.UUID) (Actor, error) {
	switch userID {
	case studio.OwnerID:
		return ActorOwner, nil
	case b.UserID:
		return ActorRequester, nil
	default:
		return "", ErrNotAuthorized
	}
}
