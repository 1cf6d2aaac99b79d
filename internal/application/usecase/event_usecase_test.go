package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devevent/internal/adapters/out/memory"
	bkdom "devevent/internal/domain/booking"
	evdom "devevent/internal/domain/event"
	imgdom "devevent/internal/domain/eventImage"
	"devevent/internal/domain/listField"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type failingCreateRepo struct {
	*memory.EventRepository
}

func (failingCreateRepo) Create(context.Context, evdom.Event) (evdom.Event, error) {
	return evdom.Event{}, errors.New("db down")
}

type countingRepo struct {
	*memory.EventRepository
	gets int
}

func (r *countingRepo) GetBySlug(ctx context.Context, slug string) (evdom.Event, error) {
	r.gets++
	return r.EventRepository.GetBySlug(ctx, slug)
}

// staleSlugRepo answers ExistsSlug with false for the first n lookups, like a
// concurrent create that lands between the check and the insert.
type staleSlugRepo struct {
	*memory.EventRepository
	stale int
}

func (r *staleSlugRepo) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	if r.stale > 0 {
		r.stale--
		return false, nil
	}
	return r.EventRepository.ExistsSlug(ctx, slug)
}

func validInput(title string) CreateEventInput {
	return CreateEventInput{
		Title:       title,
		Description: "A day of talks",
		Overview:    "Everything about the framework",
		Venue:       "RAI",
		Location:    "Amsterdam, NL",
		Date:        "2025-11-07",
		Time:        "9:00 AM",
		Mode:        "Hybrid",
		Audience:    "Developers",
		Organizer:   "GitNation",
		Tags:        listField.Single(`["react","frontend"]`),
		Agenda:      listField.Multiple("Keynote", " ", "Workshops"),
		Image:       imgdom.Upload{FileName: "banner.png", ContentType: "image/png", Data: pngBytes},
	}
}

func newEventUC(t *testing.T, repo evdom.Repository, images imgdom.ObjectStoragePort, bookings bkdom.Repository) *EventUsecase {
	t.Helper()
	u := NewEventUsecase(repo, bookings, images, EventUsecaseConfig{CacheTTL: time.Minute})
	u.now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(u.Close)
	return u
}

func TestEventCreate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewEventRepository()
	images := memory.NewObjectStorage("https://img.test")
	u := newEventUC(t, repo, images, nil)

	ev, err := u.Create(ctx, validInput("React Summit <b>2025</b>"))
	require.NoError(t, err)

	assert.Equal(t, "React Summit 2025", ev.Title)
	assert.Equal(t, "react-summit-2025", ev.Slug)
	assert.Equal(t, []string{"react", "frontend"}, ev.Tags)
	assert.Equal(t, []string{"Keynote", "Workshops"}, ev.Agenda)
	assert.Equal(t, "09:00", ev.Time)
	assert.Equal(t, evdom.ModeHybrid, ev.Mode)
	assert.Contains(t, ev.ImageObjectPath, "DevEvent/react-summit-2025/")
	assert.Equal(t, "https://img.test/"+ev.ImageObjectPath, ev.Image)

	obj, ok := images.Get(ev.ImageObjectPath)
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)

	// same title → suffixed slug
	ev2, err := u.Create(ctx, validInput("React Summit 2025"))
	require.NoError(t, err)
	assert.Equal(t, "react-summit-2025-2", ev2.Slug)
	ev3, err := u.Create(ctx, validInput("react summit 2025!"))
	require.NoError(t, err)
	assert.Equal(t, "react-summit-2025-3", ev3.Slug)
}

func TestEventCreateValidation(t *testing.T) {
	ctx := context.Background()
	images := memory.NewObjectStorage("https://img.test")
	u := newEventUC(t, memory.NewEventRepository(), images, nil)

	in := validInput("No tags")
	in.Tags = listField.Single("  ,  ")
	_, err := u.Create(ctx, in)
	assert.ErrorIs(t, err, evdom.ErrInvalidTags)

	in = validInput("Bad mode")
	in.Mode = "remote"
	_, err = u.Create(ctx, in)
	assert.ErrorIs(t, err, evdom.ErrInvalidMode)

	in = validInput("!!!")
	_, err = u.Create(ctx, in)
	assert.ErrorIs(t, err, evdom.ErrInvalidTitle)

	in = validInput("Not an image")
	in.Image.Data = []byte("hello")
	_, err = u.Create(ctx, in)
	assert.ErrorIs(t, err, imgdom.ErrInvalidFileType)

	assert.Equal(t, 0, images.Len(), "nothing uploaded for invalid input")
}

func TestEventCreateCleansUpImageOnPersistFailure(t *testing.T) {
	images := memory.NewObjectStorage("https://img.test")
	u := newEventUC(t, failingCreateRepo{memory.NewEventRepository()}, images, nil)

	_, err := u.Create(context.Background(), validInput("Go Days"))
	require.Error(t, err)
	assert.Equal(t, 0, images.Len())
}

func TestEventGetBySlugCaches(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{EventRepository: memory.NewEventRepository()}
	u := newEventUC(t, repo, memory.NewObjectStorage(""), nil)

	ev, err := u.Create(ctx, validInput("Go Days"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := u.GetBySlug(ctx, ev.Slug)
		require.NoError(t, err)
		assert.Equal(t, ev.ID, got.ID)
	}
	assert.Equal(t, 1, repo.gets)

	_, err = u.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, evdom.ErrNotFound)
	_, err = u.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, evdom.ErrNotFound)
	assert.Equal(t, 3, repo.gets, "misses are not cached")
}

func TestEventSimilarAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewEventRepository()
	images := memory.NewObjectStorage("")
	bookings := memory.NewBookingRepository()
	u := newEventUC(t, repo, images, bookings)

	a, err := u.Create(ctx, validInput("React Summit"))
	require.NoError(t, err)
	b, err := u.Create(ctx, validInput("React Conf"))
	require.NoError(t, err)
	other := validInput("Go Days")
	other.Tags = listField.Single("go\nbackend")
	_, err = u.Create(ctx, other)
	require.NoError(t, err)

	sim, err := u.Similar(ctx, a.Slug, 0)
	require.NoError(t, err)
	require.Len(t, sim, 1)
	assert.Equal(t, b.ID, sim[0].ID)

	sim, err = u.Similar(ctx, "unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, sim)

	_, err = bookings.Create(ctx, bkdom.Booking{EventID: a.ID, Email: "x@y.io"})
	require.NoError(t, err)
	_, _ = u.GetBySlug(ctx, a.Slug) // warm cache

	require.NoError(t, u.Delete(ctx, a.Slug))
	_, err = u.GetBySlug(ctx, a.Slug)
	assert.ErrorIs(t, err, evdom.ErrNotFound)
	n, _ := bookings.CountByEvent(ctx, a.ID)
	assert.Equal(t, 0, n)
	_, ok := images.Get(a.ImageObjectPath)
	assert.False(t, ok)

	assert.ErrorIs(t, u.Delete(ctx, a.Slug), evdom.ErrNotFound)
}

func TestEventList(t *testing.T) {
	ctx := context.Background()
	u := newEventUC(t, memory.NewEventRepository(), memory.NewObjectStorage(""), nil)

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := u.Create(ctx, validInput(title))
		require.NoError(t, err)
	}

	res, err := u.List(ctx, evdom.Filter{SearchQuery: "ET"}, evdom.Sort{}, evdom.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Beta", res.Items[0].Title)

	res, err = u.List(ctx, evdom.Filter{}, evdom.Sort{Column: evdom.SortByTitle, Order: evdom.SortAsc}, evdom.Page{})
	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "Alpha", res.Items[0].Title)
}

func TestEventCreateRetriesSlugTakenConcurrently(t *testing.T) {
	ctx := context.Background()
	repo := &staleSlugRepo{EventRepository: memory.NewEventRepository()}
	images := memory.NewObjectStorage("https://img.test")
	u := newEventUC(t, repo, images, nil)

	first, err := u.Create(ctx, validInput("Go Days"))
	require.NoError(t, err)
	assert.Equal(t, "go-days", first.Slug)

	repo.stale = 1
	second, err := u.Create(ctx, validInput("Go Days"))
	require.NoError(t, err)
	assert.Equal(t, "go-days-2", second.Slug)
	assert.Equal(t, 2, images.Len(), "banner of the conflicting attempt is removed")

	// a conflict on every attempt still surfaces
	repo.stale = 10
	_, err = u.Create(ctx, validInput("Go Days"))
	assert.ErrorIs(t, err, evdom.ErrConflict)
	assert.Equal(t, 2, images.Len())
}
