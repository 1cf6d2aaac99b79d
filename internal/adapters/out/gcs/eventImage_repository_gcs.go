// internal/adapters/out/gcs/eventImage_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	imgdom "devevent/internal/domain/eventImage"
)

// EventImageRepositoryGCS stores event banners in a single bucket.
//
// Layout: gs://{bucket}/{folder}/{slug}/{uuid}-{fileName}
//
// Public access:
//   - the bucket is expected to grant "allUsers: Storage Object Viewer" (uniform access),
//     so objects are readable at PublicURL without per-object ACLs.
type EventImageRepositoryGCS struct {
	Client *storage.Client
	Bucket string
	// Optional: if empty, uses https://storage.googleapis.com
	PublicBaseURL string
}

func NewEventImageRepositoryGCS(client *storage.Client, bucket string) *EventImageRepositoryGCS {
	return &EventImageRepositoryGCS{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		PublicBaseURL: "https://storage.googleapis.com",
	}
}

var _ imgdom.ObjectStoragePort = (*EventImageRepositoryGCS)(nil)

func (r *EventImageRepositoryGCS) bucket() (*storage.BucketHandle, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("eventImage_repository_gcs: storage client is nil")
	}
	if strings.TrimSpace(r.Bucket) == "" {
		return nil, errors.New("eventImage_repository_gcs: bucket is empty")
	}
	return r.Client.Bucket(r.Bucket), nil
}

// Put uploads data in a single request.
func (r *EventImageRepositoryGCS) Put(ctx context.Context, objectPath, contentType string, data []byte) error {
	bh, err := r.bucket()
	if err != nil {
		return err
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return imgdom.ErrInvalidFileName
	}

	w := bh.Object(obj).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"
	w.ChunkSize = 0
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("%w: write %s: %v", imgdom.ErrUploadFailed, obj, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", imgdom.ErrUploadFailed, obj, err)
	}
	return nil
}

// PublicURL returns {base}/{bucket}/{escaped objectPath}.
func (r *EventImageRepositoryGCS) PublicURL(objectPath string) string {
	base := strings.TrimRight(strings.TrimSpace(r.PublicBaseURL), "/")
	if base == "" {
		base = "https://storage.googleapis.com"
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	parts := strings.Split(obj, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("%s/%s/%s", base, r.Bucket, strings.Join(parts, "/"))
}

// Delete is idempotent: a missing object is not an error.
func (r *EventImageRepositoryGCS) Delete(ctx context.Context, objectPath string) error {
	bh, err := r.bucket()
	if err != nil {
		return err
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if obj == "" {
		return nil
	}
	if err := bh.Object(obj).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}
