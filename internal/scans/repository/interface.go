package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScannedProduct is a persisted product rating.
type ScannedProduct struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	UPC       string    `db:"upc"`
	Name      string    `db:"name"`
	Brand     string    `db:"brand"`
	Rating    float64   `db:"rating"`
	Summary   string    `db:"summary"`
	Pros      []string  `db:"pros"`
	Cons      []string  `db:"cons"`
	Image     string    `db:"image"`
	CreatedAt time.Time `db:"created_at"`
}

// ScannedFace is a persisted face analysis.
type ScannedFace struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Redness   float64   `db:"redness"`
	Acne      float64   `db:"acne"`
	Hydration float64   `db:"hydration"`
	Overall   float64   `db:"overall"`
	Analysis  string    `db:"analysis"`
	Tips      []string  `db:"tips"`
	ImagePath string    `db:"image_path"`
	CreatedAt time.Time `db:"created_at"`
}

// CreateProductParams contains data for inserting a product rating.
type CreateProductParams struct {
	UserID  uuid.UUID
	UPC     string
	Name    string
	Brand   string
	Rating  float64
	Summary string
	Pros    []string
	Cons    []string
	Image   string
}

// CreateFaceParams contains data for inserting a face analysis.
type CreateFaceParams struct {
	UserID    uuid.UUID
	Redness   float64
	Acne      float64
	Hydration float64
	Overall   float64
	Analysis  string
	Tips      []string
	ImagePath string
}

// ListParams selects a user's newest scans.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
}

// Repository persists scan results. Rows are insert-only.
type Repository interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (ScannedProduct, error)
	CreateFace(ctx context.Context, params CreateFaceParams) (ScannedFace, error)
	ListProducts(ctx context.Context, params ListParams) ([]ScannedProduct, error)
	ListFaces(ctx context.Context, params ListParams) ([]ScannedFace, error)
}
