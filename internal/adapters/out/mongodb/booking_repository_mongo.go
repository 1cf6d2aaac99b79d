// internal/adapters/out/mongodb/booking_repository_mongo.go
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bkdom "devevent/internal/domain/booking"
)

type BookingRepositoryMongo struct {
	col *mongo.Collection
}

func NewBookingRepositoryMongo(db *mongo.Database, collection string) *BookingRepositoryMongo {
	if strings.TrimSpace(collection) == "" {
		collection = "bookings"
	}
	return &BookingRepositoryMongo{col: db.Collection(collection)}
}

var _ bkdom.Repository = (*BookingRepositoryMongo)(nil)

// EnsureIndexes: one booking per (event_id, email).
func (r *BookingRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	opts := options.CreateIndexes().SetMaxTime(10 * time.Second)
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}, opts)
	if err != nil {
		return fmt.Errorf("bookings indexes: %w", err)
	}
	return nil
}

type bookingModel struct {
	ID        string    `bson:"_id"`
	EventID   string    `bson:"event_id"`
	Slug      string    `bson:"slug"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *BookingRepositoryMongo) Create(ctx context.Context, b bkdom.Booking) (bkdom.Booking, error) {
	if strings.TrimSpace(b.ID) == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, bookingModel{
		ID:        b.ID,
		EventID:   b.EventID,
		Slug:      b.Slug,
		Email:     b.Email,
		CreatedAt: b.CreatedAt.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bkdom.Booking{}, bkdom.ErrConflict
		}
		return bkdom.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepositoryMongo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"event_id": strings.TrimSpace(eventID)})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *BookingRepositoryMongo) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"event_id": strings.TrimSpace(eventID)})
	return err
}
