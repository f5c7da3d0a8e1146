package service

import (
	"context"

	"simplyskin/internal/scans/repository"
	"simplyskin/platform/apperr"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FaceWithURL is a stored face analysis plus a signed link to its image.
// ImageURL is empty when signing failed or storage is not configured.
type FaceWithURL struct {
	repository.ScannedFace
	ImageURL string
}

// ListProducts returns the user's newest product ratings.
func (s *Service) ListProducts(ctx context.Context, userID uuid.UUID, limit int) ([]repository.ScannedProduct, error) {
	items, err := s.repo.ListProducts(ctx, repository.ListParams{UserID: userID, Limit: ClampLimit(limit)})
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("scans.ListProducts", err)
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list scanned products", err)
	}
	return items, nil
}

// ListFaces returns the user's newest face analyses with signed image URLs.
// Signing runs concurrently with a fixed bound; a failed signature leaves
// that row's URL empty.
func (s *Service) ListFaces(ctx context.Context, userID uuid.UUID, limit int) ([]FaceWithURL, error) {
	items, err := s.repo.ListFaces(ctx, repository.ListParams{UserID: userID, Limit: ClampLimit(limit)})
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("scans.ListFaces", err)
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list scanned faces", err)
	}

	out := make([]FaceWithURL, len(items))
	for i, item := range items {
		out[i] = FaceWithURL{ScannedFace: item}
	}
	if s.historySigner == nil || len(out) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentSigns)
	for i := range out {
		g.Go(func() error {
			url, err := s.historySigner.SignFaceImage(gctx, out[i].ImagePath)
			if err != nil {
				s.log.WithContext(ctx).Warn("failed to sign face image", "image_path", out[i].ImagePath, "error", err)
				return nil
			}
			out[i].ImageURL = url
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}
