// internal/domain/eventImage/entity.go
package eventImage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// DefaultObjectPathPrefix is the canonical prefix for event banners in a single bucket.
//
// Expected layout:
//
//	gs://{bucket}/{folder}/{slug}/{uuid}-{fileName}
const DefaultObjectPathPrefix = "DevEvent"

const DefaultMaxImageSizeBytes = 5 * 1024 * 1024 // 5MB

var SupportedImageMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ドメインエラー
var (
	ErrInvalidFileType = errors.New("eventImage: invalid file type")
	ErrFileTooLarge    = errors.New("eventImage: file too large")
	ErrEmptyFile       = errors.New("eventImage: empty file")
	ErrInvalidFileName = errors.New("eventImage: invalid fileName")
	ErrUploadFailed    = errors.New("eventImage: upload failed")
)

// Upload is an image received from the client, already read into memory.
type Upload struct {
	FileName    string
	ContentType string // declared by the client (multipart part header), may be empty
	Data        []byte
}

// ObjectStoragePort is the image host (GCS in production).
type ObjectStoragePort interface {
	Put(ctx context.Context, objectPath, contentType string, data []byte) error
	PublicURL(objectPath string) string
	Delete(ctx context.Context, objectPath string) error
}

// Validate checks size and content type and returns the content type to store.
// The sniffed type wins over the declared one.
func Validate(u Upload, maxBytes int) (string, error) {
	if len(u.Data) == 0 {
		return "", ErrEmptyFile
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageSizeBytes
	}
	if len(u.Data) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, len(u.Data), maxBytes)
	}

	sniffed := baseMIME(http.DetectContentType(u.Data))
	if _, ok := SupportedImageMIMEs[sniffed]; !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, sniffed)
	}
	if declared := baseMIME(u.ContentType); declared != "" && declared != "application/octet-stream" {
		if declared == "image/jpg" {
			declared = "image/jpeg"
		}
		if _, ok := SupportedImageMIMEs[declared]; !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidFileType, declared)
		}
	}
	return sniffed, nil
}

// BuildObjectPath returns {folder}/{slug}/{uuid}-{fileName}.
func BuildObjectPath(folder, slug, fileName string) (string, error) {
	name := SanitizeFileName(fileName)
	if name == "" {
		return "", ErrInvalidFileName
	}
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = DefaultObjectPathPrefix
	}
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		slug = "_"
	}
	return path.Join(folder, slug, uuid.NewString()+"-"+name), nil
}

// SanitizeFileName removes any path fragments and trims.
func SanitizeFileName(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "\\", "/")
	if i := strings.LastIndex(v, "/"); i >= 0 {
		v = v[i+1:]
	}
	v = strings.TrimSpace(v)
	if v == "" || v == "." || v == ".." {
		return ""
	}
	// forbid query-like tails
	if strings.ContainsAny(v, "?#") {
		return ""
	}
	return strings.ReplaceAll(v, " ", "_")
}

func baseMIME(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
