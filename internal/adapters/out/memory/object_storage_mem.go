package memory

import (
	"context"
	"strings"
	"sync"

	imgdom "devevent/internal/domain/eventImage"
)

// StoredObject is one object kept by ObjectStorage.
type StoredObject struct {
	ContentType string
	Data        []byte
}

// ObjectStorage keeps uploaded images in memory. PublicURL uses BaseURL as prefix.
type ObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]StoredObject
}

func NewObjectStorage(baseURL string) *ObjectStorage {
	return &ObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: map[string]StoredObject{},
	}
}

var _ imgdom.ObjectStoragePort = (*ObjectStorage)(nil)

func (s *ObjectStorage) Put(_ context.Context, objectPath, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath] = StoredObject{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

func (s *ObjectStorage) PublicURL(objectPath string) string {
	return s.BaseURL + "/" + strings.TrimLeft(objectPath, "/")
}

func (s *ObjectStorage) Delete(_ context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectPath)
	return nil
}

// Get returns a stored object (used by the local image route and tests).
func (s *ObjectStorage) Get(objectPath string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[objectPath]
	return o, ok
}

// Len reports the number of stored objects.
func (s *ObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
