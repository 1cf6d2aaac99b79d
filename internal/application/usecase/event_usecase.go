// internal/application/usecase/event_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/microcosm-cc/bluemonday"

	bkdom "devevent/internal/domain/booking"
	evdom "devevent/internal/domain/event"
	imgdom "devevent/internal/domain/eventImage"
	"devevent/internal/domain/listField"
)

// maxSlugAttempts bounds the -2, -3, ... suffix search.
const maxSlugAttempts = 100

// createConflictRetries is how often Create re-picks a slug after the store reported it taken.
const createConflictRetries = 1

// CreateEventInput is one submitted event form.
// Tags and Agenda are kept raw; they are normalized here.
type CreateEventInput struct {
	Title       string
	Description string
	Overview    string
	Venue       string
	Location    string
	Date        string
	Time        string
	Mode        string
	Audience    string
	Organizer   string
	Tags        listField.RawFieldValue
	Agenda      listField.RawFieldValue
	Image       imgdom.Upload
}

// EventUsecaseConfig holds runtime settings resolved from config.
type EventUsecaseConfig struct {
	ImageFolder   string
	MaxImageBytes int
	CacheTTL      time.Duration
	CacheSize     int64
}

// EventUsecase は Event の作成・参照・削除を扱います。
type EventUsecase struct {
	repo     evdom.Repository
	bookings bkdom.Repository // optional (cascade on delete)
	images   imgdom.ObjectStoragePort

	cache    *ccache.Cache
	cacheTTL time.Duration
	policy   *bluemonday.Policy

	imageFolder   string
	maxImageBytes int

	now func() time.Time
}

func NewEventUsecase(
	repo evdom.Repository,
	bookings bkdom.Repository,
	images imgdom.ObjectStoragePort,
	cfg EventUsecaseConfig,
) *EventUsecase {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1000
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = imgdom.DefaultMaxImageSizeBytes
	}
	if strings.TrimSpace(cfg.ImageFolder) == "" {
		cfg.ImageFolder = imgdom.DefaultObjectPathPrefix
	}

	return &EventUsecase{
		repo:          repo,
		bookings:      bookings,
		images:        images,
		cache:         ccache.New(ccache.Configure().MaxSize(cfg.CacheSize)),
		cacheTTL:      cfg.CacheTTL,
		policy:        bluemonday.StrictPolicy(),
		imageFolder:   cfg.ImageFolder,
		maxImageBytes: cfg.MaxImageBytes,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Close stops the cache worker.
func (u *EventUsecase) Close() {
	if u != nil && u.cache != nil {
		u.cache.Stop()
	}
}

// ============================================================
// Commands
// ============================================================

// Create validates the form, uploads the banner and persists the event.
// The uploaded object is removed again when persisting fails.
func (u *EventUsecase) Create(ctx context.Context, in CreateEventInput) (evdom.Event, error) {
	if u == nil || u.repo == nil {
		return evdom.Event{}, ErrNotSupported("Event.Create")
	}
	if u.images == nil {
		return evdom.Event{}, ErrNotSupported("Event.Create (image storage)")
	}

	contentType, err := imgdom.Validate(in.Image, u.maxImageBytes)
	if err != nil {
		return evdom.Event{}, err
	}

	f := evdom.Fields{
		Title:       u.sanitize(in.Title),
		Description: u.sanitize(in.Description),
		Overview:    u.sanitize(in.Overview),
		Venue:       u.sanitize(in.Venue),
		Location:    u.sanitize(in.Location),
		Date:        in.Date,
		Time:        in.Time,
		Mode:        in.Mode,
		Audience:    u.sanitize(in.Audience),
		Organizer:   u.sanitize(in.Organizer),
		Tags:        u.sanitizeList(listField.Normalize(in.Tags)),
		Agenda:      u.sanitizeList(listField.Normalize(in.Agenda)),
	}

	// ExistsSlug and Create race with concurrent creates of the same title;
	// a slug taken in between is retried once with the next free suffix.
	for attempt := 0; ; attempt++ {
		saved, err := u.createOnce(ctx, f, in.Image, contentType)
		if err == nil {
			log.Printf("[event.usecase] created id=%s slug=%s tags=%d agenda=%d", saved.ID, saved.Slug, len(saved.Tags), len(saved.Agenda))
			return saved, nil
		}
		if errors.Is(err, evdom.ErrConflict) && attempt < createConflictRetries {
			log.Printf("[event.usecase] WARN: slug taken concurrently, retrying: %v", err)
			continue
		}
		return evdom.Event{}, err
	}
}

// createOnce picks a slug, uploads the banner and persists the event.
func (u *EventUsecase) createOnce(ctx context.Context, f evdom.Fields, img imgdom.Upload, contentType string) (evdom.Event, error) {
	slug, err := u.uniqueSlug(ctx, f.Title)
	if err != nil {
		return evdom.Event{}, err
	}

	objectPath, err := imgdom.BuildObjectPath(u.imageFolder, slug, img.FileName)
	if err != nil {
		return evdom.Event{}, err
	}
	f.Image = u.images.PublicURL(objectPath)
	f.ImageObjectPath = objectPath

	// validate everything before touching the bucket
	ev, err := evdom.New("", slug, f, u.now())
	if err != nil {
		return evdom.Event{}, err
	}

	if err := u.images.Put(ctx, objectPath, contentType, img.Data); err != nil {
		return evdom.Event{}, err
	}

	saved, err := u.repo.Create(ctx, ev)
	if err != nil {
		if derr := u.images.Delete(context.WithoutCancel(ctx), objectPath); derr != nil {
			log.Printf("[event.usecase] WARN: cleanup image %s failed: %v", objectPath, derr)
		}
		return evdom.Event{}, err
	}
	return saved, nil
}

// Delete removes the event, its bookings and its banner.
func (u *EventUsecase) Delete(ctx context.Context, slug string) error {
	if u == nil || u.repo == nil {
		return ErrNotSupported("Event.Delete")
	}
	slug = strings.TrimSpace(slug)

	ev, err := u.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, ev.ID); err != nil {
		return err
	}
	u.cache.Delete(cacheKey(slug))

	if u.bookings != nil {
		if err := u.bookings.DeleteByEvent(ctx, ev.ID); err != nil {
			log.Printf("[event.usecase] WARN: delete bookings of %s failed: %v", ev.ID, err)
		}
	}
	if u.images != nil && ev.ImageObjectPath != "" {
		if err := u.images.Delete(ctx, ev.ImageObjectPath); err != nil {
			log.Printf("[event.usecase] WARN: delete image %s failed: %v", ev.ImageObjectPath, err)
		}
	}
	return nil
}

// ============================================================
// Queries
// ============================================================

func (u *EventUsecase) List(ctx context.Context, filter evdom.Filter, sort evdom.Sort, page evdom.Page) (evdom.PageResult[evdom.Event], error) {
	if u == nil || u.repo == nil {
		return evdom.PageResult[evdom.Event]{}, ErrNotSupported("Event.List")
	}
	if strings.TrimSpace(sort.Column) == "" {
		sort = evdom.DefaultSort
	}
	return u.repo.List(ctx, filter, sort, page)
}

// GetBySlug is a read-through cache over the repository. Misses are not cached.
func (u *EventUsecase) GetBySlug(ctx context.Context, slug string) (evdom.Event, error) {
	if u == nil || u.repo == nil {
		return evdom.Event{}, ErrNotSupported("Event.GetBySlug")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return evdom.Event{}, evdom.ErrNotFound
	}

	if u.cacheTTL <= 0 {
		return u.repo.GetBySlug(ctx, slug)
	}

	item, err := u.cache.Fetch(cacheKey(slug), u.cacheTTL, func() (interface{}, error) {
		return u.repo.GetBySlug(ctx, slug)
	})
	if err != nil {
		return evdom.Event{}, err
	}
	ev, ok := item.Value().(evdom.Event)
	if !ok {
		return evdom.Event{}, fmt.Errorf("event.usecase: unexpected cache value %T", item.Value())
	}
	return ev, nil
}

// Similar returns events sharing a tag with the slug's event. Unknown slug → empty.
func (u *EventUsecase) Similar(ctx context.Context, slug string, limit int) ([]evdom.Event, error) {
	if u == nil || u.repo == nil {
		return nil, ErrNotSupported("Event.Similar")
	}
	ev, err := u.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, evdom.ErrNotFound) {
			return []evdom.Event{}, nil
		}
		return nil, err
	}
	return u.repo.ListSimilar(ctx, ev, limit)
}

// ============================================================
// helpers
// ============================================================

func (u *EventUsecase) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := evdom.Slugify(u.sanitize(title))
	if base == "" {
		return "", evdom.ErrInvalidTitle
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		cand := evdom.SlugCandidate(base, n)
		exists, err := u.repo.ExistsSlug(ctx, cand)
		if err != nil {
			return "", err
		}
		if !exists {
			return cand, nil
		}
	}
	return "", fmt.Errorf("%w: no free slug for %q", evdom.ErrConflict, base)
}

// sanitize strips markup; entities are decoded back to plain text.
func (u *EventUsecase) sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(u.policy.Sanitize(s)))
}

func (u *EventUsecase) sanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if v := u.sanitize(it); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func cacheKey(slug string) string {
	return "slug:" + slug
}
