// Package ports declares what the scans module needs from other modules and
// external collaborators. Implementations live in internal/adapters.
package ports

import (
	"context"
	"errors"

	"simplyskin/internal/scans/agent"

	"github.com/google/uuid"
)

var (
	// ErrProfileNotFound is returned when the user has no stored profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProductNotFound is returned when a barcode resolves to nothing.
	ErrProductNotFound = errors.New("product not found")
)

// LookedUpProduct is the product a barcode resolved to.
type LookedUpProduct struct {
	Title string
	Brand string
	Image string
}

// ProfileReader loads the skin profile used to personalise prompts.
type ProfileReader interface {
	GetSkinProfile(ctx context.Context, userID uuid.UUID) (agent.SkinProfile, error)
}

// ProductLookup resolves a barcode. Returns ErrProductNotFound for unknown codes.
type ProductLookup interface {
	LookupBarcode(ctx context.Context, code string) (LookedUpProduct, error)
}

// ImageSigner returns a time-limited URL for a stored face image.
type ImageSigner interface {
	SignFaceImage(ctx context.Context, imagePath string) (string, error)
}

// Analyzer runs the model prompts.
type Analyzer interface {
	ClassifyProduct(ctx context.Context, product agent.ProductInfo) (bool, error)
	RateProduct(ctx context.Context, product agent.ProductInfo, profile agent.SkinProfile) (*agent.ProductRating, error)
	ClassifyFace(ctx context.Context, imageURL string) (bool, error)
	AnalyzeFace(ctx context.Context, imageURL string, profile agent.SkinProfile) (*agent.FaceAnalysis, error)
}
