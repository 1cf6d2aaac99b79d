package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bkdom "devevent/internal/domain/booking"
	evdom "devevent/internal/domain/event"
)

func seed(t *testing.T, r *EventRepository, slug string, created time.Time, tags ...string) evdom.Event {
	t.Helper()
	e, err := r.Create(context.Background(), evdom.Event{Slug: slug, Title: slug, Tags: tags, CreatedAt: created})
	require.NoError(t, err)
	return e
}

func TestEventRepository(t *testing.T) {
	ctx := context.Background()
	r := NewEventRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := seed(t, r, "react-summit", base, "react", "frontend")
	seed(t, r, "go-days", base.Add(time.Hour), "go", "backend")
	seed(t, r, "next-conf", base.Add(2*time.Hour), "react", "nextjs")

	_, err := r.Create(ctx, evdom.Event{Slug: "react-summit"})
	assert.ErrorIs(t, err, evdom.ErrConflict)

	ok, err := r.ExistsSlug(ctx, "go-days")
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := r.List(ctx, evdom.Filter{}, evdom.DefaultSort, evdom.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "next-conf", res.Items[0].Slug)
	assert.Equal(t, 3, res.TotalCount)

	res, err = r.List(ctx, evdom.Filter{Tag: "react"}, evdom.DefaultSort, evdom.Page{Number: 2, PerPage: 1})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "react-summit", res.Items[0].Slug)
	assert.Equal(t, 2, res.TotalPages)

	sim, err := r.ListSimilar(ctx, a, 0)
	require.NoError(t, err)
	require.Len(t, sim, 1)
	assert.Equal(t, "next-conf", sim[0].Slug)

	// returned values are copies
	got, err := r.GetBySlug(ctx, "react-summit")
	require.NoError(t, err)
	got.Tags[0] = "mutated"
	again, _ := r.GetByID(ctx, a.ID)
	assert.Equal(t, "react", again.Tags[0])

	require.NoError(t, r.Delete(ctx, a.ID))
	_, err = r.GetBySlug(ctx, "react-summit")
	assert.ErrorIs(t, err, evdom.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, a.ID), evdom.ErrNotFound)
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	r := NewBookingRepository()

	_, err := r.Create(ctx, bkdom.Booking{EventID: "e1", Email: "a@b.io"})
	require.NoError(t, err)
	_, err = r.Create(ctx, bkdom.Booking{EventID: "e1", Email: "a@b.io"})
	assert.ErrorIs(t, err, bkdom.ErrConflict)
	_, err = r.Create(ctx, bkdom.Booking{EventID: "e2", Email: "a@b.io"})
	require.NoError(t, err)

	n, _ := r.CountByEvent(ctx, "e1")
	assert.Equal(t, 1, n)

	require.NoError(t, r.DeleteByEvent(ctx, "e1"))
	n, _ = r.CountByEvent(ctx, "e1")
	assert.Equal(t, 0, n)
}
