// internal/domain/booking/entity.go
package booking

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Booking is one reserved spot for an event, keyed by the visitor's email.
type Booking struct {
	ID        string
	EventID   string
	Slug      string
	Email     string
	CreatedAt time.Time
}

var (
	ErrInvalidEventID   = errors.New("booking: invalid eventId")
	ErrInvalidEmail     = errors.New("booking: invalid email")
	ErrInvalidCreatedAt = errors.New("booking: invalid createdAt")

	// 同じ email で同じイベントを二重予約したとき
	ErrConflict = errors.New("booking: already booked")
	ErrNotFound = errors.New("booking: not found")
)

// New validates and normalizes a booking (email lower-cased, display name stripped).
func New(id, eventID, slug, email string, createdAt time.Time) (Booking, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return Booking{}, ErrInvalidEventID
	}
	addr, err := NormalizeEmail(email)
	if err != nil {
		return Booking{}, err
	}
	if createdAt.IsZero() {
		return Booking{}, ErrInvalidCreatedAt
	}
	return Booking{
		ID:        strings.TrimSpace(id),
		EventID:   eventID,
		Slug:      strings.TrimSpace(slug),
		Email:     addr,
		CreatedAt: createdAt.UTC(),
	}, nil
}

func NormalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidEmail
	}
	a, err := mail.ParseAddress(s)
	if err != nil {
		return "", ErrInvalidEmail
	}
	addr := strings.ToLower(a.Address)
	if !strings.Contains(addr[strings.LastIndex(addr, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return addr, nil
}

// Repository ポート
type Repository interface {
	// Create assigns ID when empty. Same (EventID, Email) twice → ErrConflict.
	Create(ctx context.Context, b Booking) (Booking, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

// Mailer sends the confirmation after a booking is stored.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, b Booking, eventTitle, eventDate, eventTime, location string) error
}
