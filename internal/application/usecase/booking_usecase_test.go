package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/adapters/out/memory"
	bkdom "devevent/internal/domain/booking"
	evdom "devevent/internal/domain/event"
)

type fakeMailer struct {
	sent  []bkdom.Booking
	title string
	err   error
}

func (m *fakeMailer) SendBookingConfirmation(_ context.Context, b bkdom.Booking, title, _, _, _ string) error {
	m.sent = append(m.sent, b)
	m.title = title
	return m.err
}

func TestBookingBook(t *testing.T) {
	ctx := context.Background()
	events := memory.NewEventRepository()
	ev, err := events.Create(ctx, evdom.Event{Slug: "go-days", Title: "Go Days", Tags: []string{"go"}})
	require.NoError(t, err)

	mailer := &fakeMailer{}
	u := NewBookingUsecase(events, memory.NewBookingRepository(), mailer)

	b, err := u.Book(ctx, "go-days", "  Jane@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, ev.ID, b.EventID)
	assert.Equal(t, "jane@example.com", b.Email)
	assert.NotEmpty(t, b.ID)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Go Days", mailer.title)

	_, err = u.Book(ctx, "go-days", "jane@example.com")
	assert.ErrorIs(t, err, bkdom.ErrConflict)

	_, err = u.Book(ctx, "go-days", "nope")
	assert.ErrorIs(t, err, bkdom.ErrInvalidEmail)

	_, err = u.Book(ctx, "missing", "a@b.io")
	assert.ErrorIs(t, err, evdom.ErrNotFound)

	n, err := u.Count(ctx, "go-days")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBookingMailFailureKeepsBooking(t *testing.T) {
	ctx := context.Background()
	events := memory.NewEventRepository()
	_, err := events.Create(ctx, evdom.Event{Slug: "go-days", Title: "Go Days"})
	require.NoError(t, err)

	u := NewBookingUsecase(events, memory.NewBookingRepository(), &fakeMailer{err: errors.New("sendgrid 500")})

	_, err = u.Book(ctx, "go-days", "a@b.io")
	require.NoError(t, err)

	n, err := u.Count(ctx, "go-days")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
