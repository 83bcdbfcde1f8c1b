package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines booking data access
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByStudioAndDate(ctx context.Context, studioID uuid.UUID, day time.Time) ([]*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Booking, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, studio_id, user_id, start_time, end_time, status, total_amount, notes, created_at, updated_at`

// Create inserts a new booking. The bookings_no_overlap exclusion constraint
// is the real guarantee against double-booking: the in-memory availability
// check runs first, but of two racing inserts only one can commit.
func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, studio_id, user_id, start_time, end_time,
			status, total_amount, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.StudioID, b.UserID, b.StartTime, b.EndTime,
		b.Status, b.TotalAmount, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mapBookingDBError(err)
	}
	return nil
}

func mapBookingDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23P01": // exclusion_violation: bookings_no_overlap
		return fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
	case "23503": // foreign key: bookings_studio_id_fkey
		return fmt.Errorf("%w: %w", ErrStudioNotFound, err)
	case "23514": // check: valid_interval
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// ListByStudioAndDate returns every booking (any status) whose start falls on
// the given calendar day.
func (r *repository) ListByStudioAndDate(ctx context.Context, studioID uuid.UUID, day time.Time) ([]*Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE studio_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`
	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, studioID, dayStart, dayEnd); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Booking, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2 OFFSET $3
	`
	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Booking, error) {
	query := `
		UPDATE bookings SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookingColumns + `
	`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
		}
		return nil, mapBookingDBError(err)
	}
	return &b, nil
}
