package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxSignedURLTTL is the longest validity S3 presigning accepts.
const MaxSignedURLTTL = 7 * 24 * time.Hour

// MinIOService implements StorageService using MinIO.
type MinIOService struct {
	client *minio.Client
}

var _ StorageService = (*MinIOService)(nil)

// NewMinIOService creates a new MinIO storage service.
func NewMinIOService(cfg Config) (*MinIOService, error) {
	if !cfg.IsStorageEnabled() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	client, err := minio.New(cfg.GetStorageEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetStorageAccessKey(), cfg.GetStorageSecretKey(), ""),
		Secure: cfg.GetStorageUseSSL(),
		Region: cfg.GetStorageRegion(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOService{client: client}, nil
}

// BucketExists checks that the bucket is present.
func (s *MinIOService) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return exists, nil
}

// SignedDownloadURL creates a presigned URL for downloading an object.
func (s *MinIOService) SignedDownloadURL(ctx context.Context, bucket, objectKey string, ttl time.Duration) (*SignedURL, error) {
	key, err := NormalizeObjectKey(objectKey)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 || ttl > MaxSignedURLTTL {
		return nil, fmt.Errorf("signed url ttl %s out of range", ttl)
	}

	expiresAt := time.Now().Add(ttl)
	presignedURL, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned download URL: %w", err)
	}

	return &SignedURL{
		URL:       presignedURL.String(),
		ObjectKey: key,
		ExpiresAt: expiresAt,
	}, nil
}
