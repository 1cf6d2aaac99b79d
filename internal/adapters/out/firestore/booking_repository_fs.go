// internal/adapters/out/firestore/booking_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bkdom "devevent/internal/domain/booking"
)

// BookingRepositoryFS implements booking.Repository using Firestore.
//
// docId is derived from (event_id, email) so that tx.Create rejects a second booking.
type BookingRepositoryFS struct {
	Client     *gfs.Client
	Collection string
}

func NewBookingRepositoryFS(client *gfs.Client, collection string) *BookingRepositoryFS {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = "bookings"
	}
	return &BookingRepositoryFS{Client: client, Collection: collection}
}

func (r *BookingRepositoryFS) col() *gfs.CollectionRef {
	return r.Client.Collection(r.Collection)
}

// Compile-time check
var _ bkdom.Repository = (*BookingRepositoryFS)(nil)

// bookingDocID is stable for the same (eventID, email) pair.
func bookingDocID(eventID, email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(eventID+"|"+email)).String()
}

func (r *BookingRepositoryFS) Create(ctx context.Context, b bkdom.Booking) (bkdom.Booking, error) {
	if r.Client == nil {
		return bkdom.Booking{}, errors.New("firestore client is nil")
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	b.ID = bookingDocID(b.EventID, b.Email)
	ref := r.col().Doc(b.ID)

	_, err := ref.Create(ctx, encodeBookingDoc(b))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return bkdom.Booking{}, bkdom.ErrConflict
		}
		return bkdom.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepositoryFS) CountByEvent(ctx context.Context, eventID string) (int, error) {
	if r.Client == nil {
		return 0, errors.New("firestore client is nil")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return 0, nil
	}

	it := r.col().Where("event_id", "==", eventID).Select().Documents(ctx)
	defer it.Stop()

	total := 0
	for {
		_, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, err
		}
		total++
	}
	return total, nil
}

// DeleteByEvent removes all bookings of an event in batches of 400.
func (r *BookingRepositoryFS) DeleteByEvent(ctx context.Context, eventID string) error {
	if r.Client == nil {
		return errors.New("firestore client is nil")
	}
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil
	}

	it := r.col().Where("event_id", "==", eventID).Documents(ctx)
	defer it.Stop()

	batch := r.Client.Batch()
	count := 0
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return err
		}
		batch.Delete(doc.Ref)
		count++
		if count%400 == 0 {
			if _, err := batch.Commit(ctx); err != nil {
				return err
			}
			batch = r.Client.Batch()
		}
	}
	if count%400 != 0 {
		if _, err := batch.Commit(ctx); err != nil {
			return err
		}
	}
	return nil
}

type bookingDoc struct {
	EventID   string    `firestore:"event_id"`
	Slug      string    `firestore:"slug"`
	Email     string    `firestore:"email"`
	CreatedAt time.Time `firestore:"created_at"`
}

func encodeBookingDoc(b bkdom.Booking) bookingDoc {
	return bookingDoc{
		EventID:   b.EventID,
		Slug:      b.Slug,
		Email:     b.Email,
		CreatedAt: b.CreatedAt.UTC(),
	}
}
