// Package memory holds process-local stores used for local development (EVENT_STORE=memory) and tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	evdom "devevent/internal/domain/event"
)

// EventRepository is a mutex-guarded map keyed by event id.
type EventRepository struct {
	mu     sync.RWMutex
	byID   map[string]evdom.Event
	bySlug map[string]string
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		byID:   map[string]evdom.Event{},
		bySlug: map[string]string{},
	}
}

var _ evdom.Repository = (*EventRepository)(nil)

func (r *EventRepository) Create(_ context.Context, e evdom.Event) (evdom.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlug[e.Slug]; taken {
		return evdom.Event{}, evdom.ErrConflict
	}
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	if _, taken := r.byID[e.ID]; taken {
		return evdom.Event{}, evdom.ErrConflict
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	e = cloneEvent(e)
	r.byID[e.ID] = e
	r.bySlug[e.Slug] = e.ID
	return cloneEvent(e), nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (evdom.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return evdom.Event{}, evdom.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (r *EventRepository) GetBySlug(_ context.Context, slug string) (evdom.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[strings.TrimSpace(slug)]
	if !ok {
		return evdom.Event{}, evdom.ErrNotFound
	}
	return cloneEvent(r.byID[id]), nil
}

func (r *EventRepository) ExistsSlug(_ context.Context, slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.bySlug[strings.TrimSpace(slug)]
	return ok, nil
}

func (r *EventRepository) List(_ context.Context, filter evdom.Filter, sort evdom.Sort, page evdom.Page) (evdom.PageResult[evdom.Event], error) {
	all := r.snapshot(filter.Matches)
	evdom.SortEvents(all, sort)
	return evdom.SlicePage(all, page), nil
}

func (r *EventRepository) ListSimilar(_ context.Context, ev evdom.Event, limit int) ([]evdom.Event, error) {
	if limit <= 0 {
		limit = evdom.DefaultSimilarLimit
	}
	all := r.snapshot(func(e evdom.Event) bool {
		return e.ID != ev.ID && e.SharesTag(ev)
	})
	evdom.SortEvents(all, evdom.DefaultSort)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return evdom.ErrNotFound
	}
	delete(r.byID, e.ID)
	delete(r.bySlug, e.Slug)
	return nil
}

func (r *EventRepository) snapshot(keep func(evdom.Event) bool) []evdom.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]evdom.Event, 0, len(r.byID))
	for _, e := range r.byID {
		if keep(e) {
			out = append(out, cloneEvent(e))
		}
	}
	return out
}

func cloneEvent(e evdom.Event) evdom.Event {
	e.Tags = append([]string{}, e.Tags...)
	e.Agenda = append([]string{}, e.Agenda...)
	return e
}
