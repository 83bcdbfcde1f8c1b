package studio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trackroom/trackroom-api/internal/domain/booking"
)

// BookingLister supplies a studio's bookings for a day (implemented by the
// booking repository).
type BookingLister interface {
	ListByStudioAndDate(ctx context.Context, studioID uuid.UUID, day time.Time) ([]*booking.Booking, error)
}

// Config holds slot-sheet parameters
type Config struct {
	OpenHour     int
	CloseHour    int
	SessionHours []int
}

// Service handles studio listing and availability sheets
type Service struct {
	repo     Repository
	bookings BookingLister
	cfg      Config
	cache    *SheetCache
}

// NewService creates studio service
func NewService(repo Repository, bookings BookingLister, cfg Config, cache *SheetCache) *Service {
	return &Service{repo: repo, bookings: bookings, cfg: cfg, cache: cache}
}

// Get returns a single studio
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Studio, error) {
	studio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}
	return studio, nil
}

// List returns active studios with pagination
func (s *Service) List(ctx context.Context, city string, limit, offset int) ([]*Studio, int, error) {
	return s.repo.List(ctx, city, limit, offset)
}

// DaySheet renders the offered start times for a studio on one date, each
// flagged with availability for a session of the given length. Candidate
// slots walk the opening hours hour by hour; a slot is offered when the
// whole session fits before closing.
func (s *Service) DaySheet(ctx context.Context, studioID uuid.UUID, date string, hours int) (*DaySheet, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidDate)
	}
	if !s.sessionAllowed(hours) {
		return nil, fmt.Errorf("%w: session length %dh is not offered", ErrInvalidHours, hours)
	}

	studio, err := s.repo.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}

	if cached := s.cache.Get(ctx, studioID, date, hours); cached != nil {
		return cached, nil
	}

	existing, err := s.bookings.ListByStudioAndDate(ctx, studioID, day)
	if err != nil {
		return nil, err
	}

	sheet := &DaySheet{
		StudioID: studioID,
		Date:     date,
		Hours:    hours,
	}
	for startHour := s.cfg.OpenHour; startHour+hours <= s.cfg.CloseHour; startHour++ {
		start := day.Add(time.Duration(startHour) * time.Hour)
		end := start.Add(time.Duration(hours) * time.Hour)
		sheet.Slots = append(sheet.Slots, SlotInfo{
			Start:     start.Format("15:04"),
			End:       end.Format("15:04"),
			Available: booking.SlotAvailable(existing, start, end),
		})
	}

	s.cache.Set(ctx, sheet)
	return sheet, nil
}

func (s *Service) sessionAllowed(hours int) bool {
	for _, h := range s.cfg.SessionHours {
		if hours == h {
			return true
		}
	}
	return false
}
