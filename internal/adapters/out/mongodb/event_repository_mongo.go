// internal/adapters/out/mongodb/event_repository_mongo.go
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	common "devevent/internal/domain/common"
	evdom "devevent/internal/domain/event"
)

// EventRepositoryMongo implements event.Repository on a MongoDB collection.
type EventRepositoryMongo struct {
	col *mongo.Collection
}

func NewEventRepositoryMongo(db *mongo.Database, collection string) *EventRepositoryMongo {
	if strings.TrimSpace(collection) == "" {
		collection = "events"
	}
	return &EventRepositoryMongo{col: db.Collection(collection)}
}

var _ evdom.Repository = (*EventRepositoryMongo)(nil)

// EnsureIndexes creates the unique slug index and the list/similar indexes.
func (r *EventRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}, opts)
	if err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}
	return nil
}

type eventModel struct {
	ID              string    `bson:"_id"`
	Title           string    `bson:"title"`
	Slug            string    `bson:"slug"`
	Description     string    `bson:"description"`
	Overview        string    `bson:"overview"`
	Image           string    `bson:"image"`
	ImageObjectPath string    `bson:"image_object_path"`
	Venue           string    `bson:"venue"`
	Location        string    `bson:"location"`
	Date            string    `bson:"date"`
	Time            string    `bson:"time"`
	Mode            string    `bson:"mode"`
	Audience        string    `bson:"audience"`
	Agenda          []string  `bson:"agenda"`
	Organizer       string    `bson:"organizer"`
	Tags            []string  `bson:"tags"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func toEventModel(e evdom.Event) eventModel {
	return eventModel{
		ID: e.ID, Title: e.Title, Slug: e.Slug, Description: e.Description, Overview: e.Overview,
		Image: e.Image, ImageObjectPath: e.ImageObjectPath, Venue: e.Venue, Location: e.Location,
		Date: e.Date, Time: e.Time, Mode: string(e.Mode), Audience: e.Audience,
		Agenda: nonNil(e.Agenda), Organizer: e.Organizer, Tags: nonNil(e.Tags),
		CreatedAt: e.CreatedAt.UTC(), UpdatedAt: e.UpdatedAt.UTC(),
	}
}

func (m eventModel) toDomain() evdom.Event {
	return evdom.Event{
		ID: m.ID, Title: m.Title, Slug: m.Slug, Description: m.Description, Overview: m.Overview,
		Image: m.Image, ImageObjectPath: m.ImageObjectPath, Venue: m.Venue, Location: m.Location,
		Date: m.Date, Time: m.Time, Mode: evdom.Mode(m.Mode), Audience: m.Audience,
		Agenda: nonNil(m.Agenda), Organizer: m.Organizer, Tags: nonNil(m.Tags),
		CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func (r *EventRepositoryMongo) Create(ctx context.Context, e evdom.Event) (evdom.Event, error) {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}

	if _, err := r.col.InsertOne(ctx, toEventModel(e)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return evdom.Event{}, evdom.ErrConflict
		}
		return evdom.Event{}, fmt.Errorf("insert event %s: %w", e.Slug, err)
	}
	return e, nil
}

func (r *EventRepositoryMongo) GetByID(ctx context.Context, id string) (evdom.Event, error) {
	return r.findOne(ctx, bson.M{"_id": strings.TrimSpace(id)})
}

func (r *EventRepositoryMongo) GetBySlug(ctx context.Context, slug string) (evdom.Event, error) {
	return r.findOne(ctx, bson.M{"slug": strings.TrimSpace(slug)})
}

func (r *EventRepositoryMongo) findOne(ctx context.Context, where bson.M) (evdom.Event, error) {
	var m eventModel
	err := r.col.FindOne(ctx, where).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return evdom.Event{}, evdom.ErrNotFound
	}
	if err != nil {
		return evdom.Event{}, err
	}
	return m.toDomain(), nil
}

func (r *EventRepositoryMongo) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return false, nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *EventRepositoryMongo) List(ctx context.Context, filter evdom.Filter, sort evdom.Sort, page evdom.Page) (evdom.PageResult[evdom.Event], error) {
	where := buildEventFilter(filter)
	pageNum, limit, offset := common.NormalizePage(page)

	total, err := r.col.CountDocuments(ctx, where)
	if err != nil {
		return evdom.PageResult[evdom.Event]{}, err
	}

	opts := options.Find().
		SetSort(buildEventSort(sort)).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	if sort.Column == evdom.SortByTitle {
		opts.SetCollation(&options.Collation{Locale: "en", Strength: 2})
	}

	items, err := r.find(ctx, where, opts)
	if err != nil {
		return evdom.PageResult[evdom.Event]{}, err
	}

	return evdom.PageResult[evdom.Event]{
		Items:      items,
		TotalCount: int(total),
		TotalPages: common.ComputeTotalPages(int(total), limit),
		Page:       pageNum,
		PerPage:    limit,
	}, nil
}

func (r *EventRepositoryMongo) ListSimilar(ctx context.Context, ev evdom.Event, limit int) ([]evdom.Event, error) {
	if limit <= 0 {
		limit = evdom.DefaultSimilarLimit
	}
	if len(ev.Tags) == 0 {
		return []evdom.Event{}, nil
	}
	where := bson.M{
		"tags": bson.M{"$in": ev.Tags},
		"_id":  bson.M{"$ne": ev.ID},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, where, opts)
}

func (r *EventRepositoryMongo) find(ctx context.Context, where bson.M, opts *options.FindOptions) ([]evdom.Event, error) {
	cur, err := r.col.Find(ctx, where, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []evdom.Event{}
	for cur.Next(ctx) {
		var m eventModel
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		items = append(items, m.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *EventRepositoryMongo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": strings.TrimSpace(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return evdom.ErrNotFound
	}
	return nil
}

func buildEventFilter(f evdom.Filter) bson.M {
	where := bson.M{}
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		where["title"] = bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	}
	if t := strings.TrimSpace(f.Tag); t != "" {
		where["tags"] = t
	}
	if f.Mode != nil {
		where["mode"] = string(*f.Mode)
	}
	return where
}

func buildEventSort(s evdom.Sort) bson.D {
	dir := 1
	if s.Order == evdom.SortDesc {
		dir = -1
	}
	switch s.Column {
	case evdom.SortByDate:
		return bson.D{{Key: "date", Value: dir}, {Key: "time", Value: dir}, {Key: "_id", Value: 1}}
	case evdom.SortByTitle:
		return bson.D{{Key: "title", Value: dir}, {Key: "_id", Value: 1}}
	case evdom.SortByCreatedAt:
		return bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
