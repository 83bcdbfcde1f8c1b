package studio

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines studio data access
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Studio, error)
	List(ctx context.Context, city string, limit, offset int) ([]*Studio, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates studio repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const studioColumns = `id, owner_id, name, description, city, address, hourly_rate, is_active, created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Studio, error) {
	query := `SELECT ` + studioColumns + ` FROM studios WHERE id = $1`
	var s Studio
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// List returns active studios, optionally filtered by city
func (r *repository) List(ctx context.Context, city string, limit, offset int) ([]*Studio, int, error) {
	where := " WHERE is_active"
	args := []interface{}{}
	if city != "" {
		where += " AND city = $1"
		args = append(args, city)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM studios"+where, args...); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + studioColumns + " FROM studios" + where +
		" ORDER BY name" +
		" LIMIT " + placeholder(len(args)+1) + " OFFSET " + placeholder(len(args)+2)
	args = append(args, limit, offset)

	var studios []*Studio
	if err := r.db.SelectContext(ctx, &studios, query, args...); err != nil {
		return nil, 0, err
	}
	return studios, total, nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
