package studio

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Studio represents a recording studio listed on the platform
type Studio struct {
	ID      uuid.UUID `db:"id" json:"id"`
	OwnerID uuid.UUID `db:"owner_id" json:"owner_id"`

	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	City        sql.NullString `db:"city" json:"city,omitempty"`
	Address     sql.NullString `db:"address" json:"address,omitempty"`

	HourlyRate float64 `db:"hourly_rate" json:"hourly_rate"`
	IsActive   bool    `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
