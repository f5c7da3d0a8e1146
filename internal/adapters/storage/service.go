// Package storage provides a domain-agnostic interface for S3-compatible object storage.
package storage

import (
	"context"
	"time"
)

// SignedURL is a time-limited download link for a stored object.
type SignedURL struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StorageService defines the object storage operations the application needs.
type StorageService interface {
	// SignedDownloadURL creates a presigned GET URL valid for ttl.
	SignedDownloadURL(ctx context.Context, bucket, objectKey string, ttl time.Duration) (*SignedURL, error)

	// BucketExists reports whether the bucket is reachable.
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// Config defines the configuration interface for storage.
type Config interface {
	GetStorageEndpoint() string
	GetStorageAccessKey() string
	GetStorageSecretKey() string
	GetStorageUseSSL() bool
	GetStorageRegion() string
	IsStorageEnabled() bool
}
