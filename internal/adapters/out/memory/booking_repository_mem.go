package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	bkdom "devevent/internal/domain/booking"
)

type bookingKey struct{ eventID, email string }

type BookingRepository struct {
	mu    sync.Mutex
	items map[bookingKey]bkdom.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: map[bookingKey]bkdom.Booking{}}
}

var _ bkdom.Repository = (*BookingRepository)(nil)

func (r *BookingRepository) Create(_ context.Context, b bkdom.Booking) (bkdom.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := bookingKey{b.EventID, b.Email}
	if _, ok := r.items[k]; ok {
		return bkdom.Booking{}, bkdom.ErrConflict
	}
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	r.items[k] = b
	return b, nil
}

func (r *BookingRepository) CountByEvent(_ context.Context, eventID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for k := range r.items {
		if k.eventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r *BookingRepository) DeleteByEvent(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k := range r.items {
		if k.eventID == eventID {
			delete(r.items, k)
		}
	}
	return nil
}
