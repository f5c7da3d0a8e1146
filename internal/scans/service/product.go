package service

import (
	"context"
	"errors"

	"simplyskin/internal/scans/agent"
	"simplyskin/internal/scans/ports"
	"simplyskin/internal/scans/repository"
	"simplyskin/platform/apperr"

	"github.com/google/uuid"
)

// ScanProduct resolves a barcode, checks it is a skincare product, rates it
// for the user and stores the rating. Every successful call inserts a new row.
func (s *Service) ScanProduct(ctx context.Context, userID uuid.UUID, code string) (repository.ScannedProduct, error) {
	const op = "scans.ScanProduct"
	log := s.log.WithContext(ctx)

	if err := s.ProductReady(); err != nil {
		return repository.ScannedProduct{}, err
	}

	profile, err := s.profiles.GetSkinProfile(ctx, userID)
	if err != nil {
		log.Warn("profile unavailable for product scan", "user_id", userID, "error", err)
		return repository.ScannedProduct{}, apperr.Wrap(apperr.KindBadRequest, "unable to load user profile", err).
			WithCode(apperr.CodeProfileUnavailable).WithOp(op)
	}

	product, err := s.lookup.LookupBarcode(ctx, code)
	if err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			log.ScanEvent(scanKindProduct, userID.String(), "product_not_found")
			return repository.ScannedProduct{}, apperr.Wrap(apperr.KindNotFound, "no product found for this barcode", err).
				WithCode(apperr.CodeProductNotFound).WithOp(op)
		}
		return repository.ScannedProduct{}, apperr.Wrap(apperr.KindInternal, "product lookup failed", err).
			WithCode(apperr.CodeUpstreamFailed).WithOp(op)
	}

	info := agent.ProductInfo{Title: product.Title, Brand: product.Brand}
	isSkincare, err := s.analyzer.ClassifyProduct(ctx, info)
	if err != nil {
		return repository.ScannedProduct{}, llmError(op, err)
	}
	if !isSkincare {
		log.ScanEvent(scanKindProduct, userID.String(), "not_skincare")
		return repository.ScannedProduct{}, apperr.BadRequest("this product is not a skincare product").
			WithCode(apperr.CodeNotSkincare).WithOp(op)
	}

	rating, err := s.analyzer.RateProduct(ctx, info, profile)
	if err != nil {
		return repository.ScannedProduct{}, llmError(op, err)
	}

	row, err := s.repo.CreateProduct(ctx, repository.CreateProductParams{
		UserID:  userID,
		UPC:     code,
		Name:    product.Title,
		Brand:   product.Brand,
		Rating:  rating.Rating,
		Summary: rating.Summary,
		Pros:    rating.Pros,
		Cons:    rating.Cons,
		Image:   product.Image,
	})
	if err != nil {
		log.DatabaseError(op, err)
		return repository.ScannedProduct{}, persistenceError(op, err)
	}

	log.ScanEvent(scanKindProduct, userID.String(), "stored")
	return row, nil
}
