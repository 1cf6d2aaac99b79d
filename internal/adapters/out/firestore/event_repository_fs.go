// internal/adapters/out/firestore/event_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	evdom "devevent/internal/domain/event"
)

// EventRepositoryFS implements event.Repository using Firestore.
//
// Slug uniqueness is kept with a second collection ({events}_slugs) whose doc id is the slug.
// Both docs are written in one transaction.
type EventRepositoryFS struct {
	Client     *gfs.Client
	Collection string
}

func NewEventRepositoryFS(client *gfs.Client, collection string) *EventRepositoryFS {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = "events"
	}
	return &EventRepositoryFS{Client: client, Collection: collection}
}

func (r *EventRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection(r.Collection)
}

func (r *EventRepositoryFS) slugCol() *gfs.CollectionRef {
	return r.Client.Collection(r.Collection + "_slugs")
}

// Compile-time check
var _ evdom.Repository = (*EventRepositoryFS)(nil)

// =======================
// Queries
// =======================

func (r *EventRepositoryFS) GetByID(ctx context.Context, id string) (evdom.Event, error) {
	if r.Client == nil {
		return evdom.Event{}, errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return evdom.Event{}, evdom.ErrNotFound
	}

	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return evdom.Event{}, evdom.ErrNotFound
		}
		return evdom.Event{}, err
	}
	return decodeEventDoc(doc)
}

func (r *EventRepositoryFS) GetBySlug(ctx context.Context, slug string) (evdom.Event, error) {
	if r.Client == nil {
		return evdom.Event{}, errors.New("firestore client is nil")
	}

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return evdom.Event{}, evdom.ErrNotFound
	}

	it := r.col().Where("slug", "==", slug).Limit(1).Documents(ctx)
	defer it.Stop()

	doc, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return evdom.Event{}, evdom.ErrNotFound
	}
	if err != nil {
		return evdom.Event{}, err
	}
	return decodeEventDoc(doc)
}

func (r *EventRepositoryFS) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	if r.Client == nil {
		return false, errors.New("firestore client is nil")
	}

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return false, nil
	}

	_, err := r.slugCol().Doc(slug).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List scans the collection and applies Filter / Sort / Page in memory.
func (r *EventRepositoryFS) List(
	ctx context.Context,
	filter evdom.Filter,
	sortOpt evdom.Sort,
	page evdom.Page,
) (evdom.PageResult[evdom.Event], error) {
	if r.Client == nil {
		return evdom.PageResult[evdom.Event]{}, errors.New("firestore client is nil")
	}

	q := r.col().Query
	if t := strings.TrimSpace(filter.Tag); t != "" {
		q = q.Where("tags", "array-contains", t)
	}
	if filter.Mode != nil {
		q = q.Where("mode", "==", string(*filter.Mode))
	}

	all, err := r.scan(ctx, q, func(e evdom.Event) bool { return filter.Matches(e) })
	if err != nil {
		return evdom.PageResult[evdom.Event]{}, err
	}

	evdom.SortEvents(all, sortOpt)
	return evdom.SlicePage(all, page), nil
}

func (r *EventRepositoryFS) ListSimilar(ctx context.Context, ev evdom.Event, limit int) ([]evdom.Event, error) {
	if r.Client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if limit <= 0 {
		limit = evdom.DefaultSimilarLimit
	}
	if len(ev.Tags) == 0 {
		return []evdom.Event{}, nil
	}

	// array-contains-any accepts at most 30 values; larger tag sets are queried per chunk
	seen := map[string]struct{}{}
	all := []evdom.Event{}
	for _, chunk := range chunkTags(ev.Tags, maxArrayContainsAny) {
		q := r.col().Where("tags", "array-contains-any", chunk)
		found, err := r.scan(ctx, q, func(e evdom.Event) bool {
			return e.ID != ev.ID && e.SharesTag(ev)
		})
		if err != nil {
			return nil, err
		}
		for _, e := range found {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			all = append(all, e)
		}
	}

	evdom.SortEvents(all, evdom.DefaultSort)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

const maxArrayContainsAny = 30

// chunkTags de-duplicates tags (trimmed, empties dropped) and splits them into groups of at most size.
func chunkTags(tags []string, size int) [][]string {
	seen := make(map[string]struct{}, len(tags))
	uniq := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}

	var out [][]string
	for len(uniq) > 0 {
		n := size
		if len(uniq) < n {
			n = len(uniq)
		}
		out = append(out, uniq[:n])
		uniq = uniq[n:]
	}
	return out
}

func (r *EventRepositoryFS) scan(ctx context.Context, q gfs.Query, keep func(evdom.Event) bool) ([]evdom.Event, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	out := []evdom.Event{}
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		e, err := decodeEventDoc(doc)
		if err != nil {
			return nil, err
		}
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// =======================
// Commands
// =======================

func (r *EventRepositoryFS) Create(ctx context.Context, e evdom.Event) (evdom.Event, error) {
	if r.Client == nil {
		return evdom.Event{}, errors.New("firestore client is nil")
	}

	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	var ref *gfs.DocumentRef
	if id := strings.TrimSpace(e.ID); id == "" {
		ref = r.col().NewDoc()
	} else {
		ref = r.col().Doc(id)
	}
	e.ID = ref.ID
	slugRef := r.slugCol().Doc(e.Slug)

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		if err := tx.Create(slugRef, map[string]any{
			"event_id":   e.ID,
			"created_at": e.CreatedAt,
		}); err != nil {
			return err
		}
		return tx.Create(ref, encodeEventDoc(e))
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return evdom.Event{}, evdom.ErrConflict
		}
		return evdom.Event{}, err
	}

	return e, nil
}

func (r *EventRepositoryFS) Delete(ctx context.Context, id string) error {
	if r.Client == nil {
		return errors.New("firestore client is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return evdom.ErrNotFound
	}
	ref := r.col().Doc(id)

	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *gfs.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return evdom.ErrNotFound
			}
			return err
		}
		e, err := decodeEventDoc(doc)
		if err != nil {
			return err
		}
		if e.Slug != "" {
			if err := tx.Delete(r.slugCol().Doc(e.Slug)); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
}

// =======================
// Encode / Decode
// =======================

type eventDoc struct {
	Title           string    `firestore:"title"`
	Slug            string    `firestore:"slug"`
	Description     string    `firestore:"description"`
	Overview        string    `firestore:"overview"`
	Image           string    `firestore:"image"`
	ImageObjectPath string    `firestore:"image_object_path"`
	Venue           string    `firestore:"venue"`
	Location        string    `firestore:"location"`
	Date            string    `firestore:"date"`
	Time            string    `firestore:"time"`
	Mode            string    `firestore:"mode"`
	Audience        string    `firestore:"audience"`
	Agenda          []string  `firestore:"agenda"`
	Organizer       string    `firestore:"organizer"`
	Tags            []string  `firestore:"tags"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

func encodeEventDoc(e evdom.Event) eventDoc {
	return eventDoc{
		Title:           e.Title,
		Slug:            e.Slug,
		Description:     e.Description,
		Overview:        e.Overview,
		Image:           e.Image,
		ImageObjectPath: e.ImageObjectPath,
		Venue:           e.Venue,
		Location:        e.Location,
		Date:            e.Date,
		Time:            e.Time,
		Mode:            string(e.Mode),
		Audience:        e.Audience,
		Agenda:          nonNil(e.Agenda),
		Organizer:       e.Organizer,
		Tags:            nonNil(e.Tags),
		CreatedAt:       e.CreatedAt.UTC(),
		UpdatedAt:       e.UpdatedAt.UTC(),
	}
}

func decodeEventDoc(doc *gfs.DocumentSnapshot) (evdom.Event, error) {
	var raw eventDoc
	if err := doc.DataTo(&raw); err != nil {
		return evdom.Event{}, err
	}
	return evdom.Event{
		ID:              strings.TrimSpace(doc.Ref.ID),
		Title:           raw.Title,
		Slug:            raw.Slug,
		Description:     raw.Description,
		Overview:        raw.Overview,
		Image:           raw.Image,
		ImageObjectPath: raw.ImageObjectPath,
		Venue:           raw.Venue,
		Location:        raw.Location,
		Date:            raw.Date,
		Time:            raw.Time,
		Mode:            evdom.Mode(raw.Mode),
		Audience:        raw.Audience,
		Agenda:          nonNil(raw.Agenda),
		Organizer:       raw.Organizer,
		Tags:            nonNil(raw.Tags),
		CreatedAt:       raw.CreatedAt.UTC(),
		UpdatedAt:       raw.UpdatedAt.UTC(),
	}, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
