package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	bkdom "devevent/internal/domain/booking"
)

type BookingRepositoryPG struct {
	DB *sql.DB
}

func NewBookingRepositoryPG(db *sql.DB) *BookingRepositoryPG {
	return &BookingRepositoryPG{DB: db}
}

var _ bkdom.Repository = (*BookingRepositoryPG)(nil)

// Create relies on UNIQUE (event_id, email).
func (r *BookingRepositoryPG) Create(ctx context.Context, b bkdom.Booking) (bkdom.Booking, error) {
	const q = `
INSERT INTO bookings (id, event_id, slug, email, created_at)
VALUES ($1, $2, $3, $4, $5)
`
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	if _, err := r.DB.ExecContext(ctx, q, b.ID, b.EventID, b.Slug, b.Email, b.CreatedAt.UTC()); err != nil {
		if isUniqueViolation(err) {
			return bkdom.Booking{}, bkdom.ErrConflict
		}
		return bkdom.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepositoryPG) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id = $1`, strings.TrimSpace(eventID)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *BookingRepositoryPG) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM bookings WHERE event_id = $1`, strings.TrimSpace(eventID))
	return err
}
