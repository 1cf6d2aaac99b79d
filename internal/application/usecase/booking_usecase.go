// internal/application/usecase/booking_usecase.go
package usecase

import (
	"context"
	"log"
	"time"

	bkdom "devevent/internal/domain/booking"
	evdom "devevent/internal/domain/event"
)

// EventBySlugReader is satisfied by EventUsecase (cached) and by event.Repository.
type EventBySlugReader interface {
	GetBySlug(ctx context.Context, slug string) (evdom.Event, error)
}

// BookingUsecase は予約の作成と件数取得を扱います。
type BookingUsecase struct {
	events EventBySlugReader
	repo   bkdom.Repository
	mailer bkdom.Mailer // optional

	now func() time.Time
}

func NewBookingUsecase(events EventBySlugReader, repo bkdom.Repository, mailer bkdom.Mailer) *BookingUsecase {
	return &BookingUsecase{
		events: events,
		repo:   repo,
		mailer: mailer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Book stores a booking and sends the confirmation mail.
// A mail failure is logged; the booking stands.
func (u *BookingUsecase) Book(ctx context.Context, slug, email string) (bkdom.Booking, error) {
	if u == nil || u.repo == nil || u.events == nil {
		return bkdom.Booking{}, ErrNotSupported("Booking.Book")
	}

	ev, err := u.events.GetBySlug(ctx, slug)
	if err != nil {
		return bkdom.Booking{}, err
	}

	b, err := bkdom.New("", ev.ID, ev.Slug, email, u.now())
	if err != nil {
		return bkdom.Booking{}, err
	}

	saved, err := u.repo.Create(ctx, b)
	if err != nil {
		return bkdom.Booking{}, err
	}

	if u.mailer != nil {
		if err := u.mailer.SendBookingConfirmation(ctx, saved, ev.Title, ev.Date, ev.Time, ev.Location); err != nil {
			log.Printf("[booking.usecase] WARN: confirmation mail to %s failed: %v", saved.Email, err)
		}
	}
	return saved, nil
}

// Count returns the number of bookings for the slug's event.
func (u *BookingUsecase) Count(ctx context.Context, slug string) (int, error) {
	if u == nil || u.repo == nil || u.events == nil {
		return 0, ErrNotSupported("Booking.Count")
	}
	ev, err := u.events.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return u.repo.CountByEvent(ctx, ev.ID)
}
