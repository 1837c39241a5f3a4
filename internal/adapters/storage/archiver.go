package storage

import (
	"bytes"
	"context"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Archiver stores each processed upload under uploads/<batch_id>/<file name>.
type Archiver struct {
	store  StorageService
	bucket string
}

// NewArchiver returns an Archiver writing to bucket. The bucket must exist.
func NewArchiver(store StorageService, bucket string) *Archiver {
	return &Archiver{store: store, bucket: bucket}
}

// Archive uploads body and returns the object key.
func (a *Archiver) Archive(ctx context.Context, batchID uuid.UUID, fileName string, body []byte) (string, error) {
	key := ObjectKey(batchID, fileName)
	return a.store.UploadFile(ctx, a.bucket, key, UploadContentType, bytes.NewReader(body), int64(len(body)))
}

// Discard removes an archived upload whose batch was not stored.
func (a *Archiver) Discard(ctx context.Context, key string) error {
	return a.store.DeleteObject(ctx, a.bucket, key)
}

// ObjectKey builds the archive key for an upload.
func ObjectKey(batchID uuid.UUID, fileName string) string {
	return path.Join("uploads", batchID.String(), SanitizeFileName(fileName))
}

// SanitizeFileName reduces a client-supplied file name to a safe base name.
// An empty result falls back to "upload.csv".
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return "upload.csv"
	}
	return cleaned
}
