package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	productColumns = `id, user_id, upc, name, brand, rating, summary, pros, cons, image, created_at`
	faceColumns    = `id, user_id, redness, acne, hydration, overall, analysis, tips, image_path, created_at`
)

// Repo implements the scans repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new scans repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateProduct inserts one product rating. Repeated scans create new rows.
func (r *Repo) CreateProduct(ctx context.Context, params CreateProductParams) (ScannedProduct, error) {
	query := `
		INSERT INTO scanned_products (user_id, upc, name, brand, rating, summary, pros, cons, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns

	rows, err := r.pool.Query(ctx, query,
		params.UserID, params.UPC, params.Name, params.Brand, params.Rating,
		params.Summary, nonNil(params.Pros), nonNil(params.Cons), params.Image,
	)
	if err != nil {
		return ScannedProduct{}, fmt.Errorf("create scanned product: %w", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[ScannedProduct])
	if err != nil {
		return ScannedProduct{}, fmt.Errorf("create scanned product: %w", err)
	}
	return normalizeProduct(product), nil
}

// CreateFace inserts one face analysis.
func (r *Repo) CreateFace(ctx context.Context, params CreateFaceParams) (ScannedFace, error) {
	query := `
		INSERT INTO scanned_faces (user_id, redness, acne, hydration, overall, analysis, tips, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + faceColumns

	rows, err := r.pool.Query(ctx, query,
		params.UserID, params.Redness, params.Acne, params.Hydration, params.Overall,
		params.Analysis, nonNil(params.Tips), params.ImagePath,
	)
	if err != nil {
		return ScannedFace{}, fmt.Errorf("create scanned face: %w", err)
	}
	face, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[ScannedFace])
	if err != nil {
		return ScannedFace{}, fmt.Errorf("create scanned face: %w", err)
	}
	return normalizeFace(face), nil
}

// ListProducts returns a user's product ratings, newest first.
func (r *Repo) ListProducts(ctx context.Context, params ListParams) ([]ScannedProduct, error) {
	query := `SELECT ` + productColumns + `
		FROM scanned_products
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, params.UserID, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list scanned products: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[ScannedProduct])
	if err != nil {
		return nil, fmt.Errorf("list scanned products: %w", err)
	}
	for i := range items {
		items[i] = normalizeProduct(items[i])
	}
	return items, nil
}

// ListFaces returns a user's face analyses, newest first.
func (r *Repo) ListFaces(ctx context.Context, params ListParams) ([]ScannedFace, error) {
	query := `SELECT ` + faceColumns + `
		FROM scanned_faces
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, params.UserID, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list scanned faces: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[ScannedFace])
	if err != nil {
		return nil, fmt.Errorf("list scanned faces: %w", err)
	}
	for i := range items {
		items[i] = normalizeFace(items[i])
	}
	return items, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func normalizeProduct(p ScannedProduct) ScannedProduct {
	p.Pros = nonNil(p.Pros)
	p.Cons = nonNil(p.Cons)
	return p
}

func normalizeFace(f ScannedFace) ScannedFace {
	f.Tips = nonNil(f.Tips)
	return f
}
