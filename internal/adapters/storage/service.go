// Package storage archives uploaded lead files in S3-compatible object storage.
package storage

import (
	"context"
	"io"
)

// UploadContentType is the content type recorded for archived uploads.
const UploadContentType = "text/csv"

// Config is the subset of configuration the MinIO adapter needs.
type Config interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	IsMinIOEnabled() bool
}

// StorageService defines the object storage operations used for upload archiving.
type StorageService interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// UploadFile uploads reader under key and returns the key.
	UploadFile(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) (string, error)

	// DeleteObject removes an object from storage.
	DeleteObject(ctx context.Context, bucket, key string) error
}
