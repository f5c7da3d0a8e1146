package adapters

import (
	"context"
	"time"

	"simplyskin/internal/adapters/storage"
	"simplyskin/internal/scans/ports"
)

// FaceImageSigner presigns face images in the configured bucket.
type FaceImageSigner struct {
	storage storage.StorageService
	bucket  string
	ttl     time.Duration
}

// NewFaceImageSigner creates a new face image signer adapter.
func NewFaceImageSigner(storageSvc storage.StorageService, bucket string, ttl time.Duration) *FaceImageSigner {
	return &FaceImageSigner{storage: storageSvc, bucket: bucket, ttl: ttl}
}

// SignFaceImage returns a fresh presigned URL for the image path.
func (s *FaceImageSigner) SignFaceImage(ctx context.Context, imagePath string) (string, error) {
	signed, err := s.storage.SignedDownloadURL(ctx, s.bucket, imagePath, s.ttl)
	if err != nil {
		return "", err
	}
	return signed.URL, nil
}

// CachedFaceImageSigner reuses signed URLs from a cache. Entries expire
// before the URLs they hold.
type CachedFaceImageSigner struct {
	signer   *FaceImageSigner
	cache    storage.URLCache
	cacheTTL time.Duration
}

// minRemainingValidity is how long a cached URL must still be usable by the
// client after it is served.
const minRemainingValidity = 5 * time.Minute

// NewCachedFaceImageSigner wraps signer with cache. cacheTTL is capped so a
// served URL stays valid for at least minRemainingValidity.
func NewCachedFaceImageSigner(signer *FaceImageSigner, cache storage.URLCache, cacheTTL time.Duration) *CachedFaceImageSigner {
	limit := signer.ttl - minRemainingValidity
	if limit <= 0 {
		limit = signer.ttl / 2
	}
	if cacheTTL <= 0 || cacheTTL > limit {
		cacheTTL = limit
	}
	return &CachedFaceImageSigner{signer: signer, cache: cache, cacheTTL: cacheTTL}
}

// SignFaceImage returns a cached URL or signs and caches a new one.
func (s *CachedFaceImageSigner) SignFaceImage(ctx context.Context, imagePath string) (string, error) {
	key, err := storage.NormalizeObjectKey(imagePath)
	if err != nil {
		return "", err
	}
	key = s.signer.bucket + "/" + key

	if url, ok := s.cache.Get(ctx, key); ok {
		return url, nil
	}
	url, err := s.signer.SignFaceImage(ctx, imagePath)
	if err != nil {
		return "", err
	}
	s.cache.Set(ctx, key, url, s.cacheTTL)
	return url, nil
}

// Compile-time checks that both signers implement ports.ImageSigner.
var (
	_ ports.ImageSigner = (*FaceImageSigner)(nil)
	_ ports.ImageSigner = (*CachedFaceImageSigner)(nil)
)
