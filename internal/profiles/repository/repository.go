// Package repository stores user skin profiles.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simplyskin/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileNotFoundMessage = "profile not found"

// Profile is a user's skin profile.
type Profile struct {
	UserID       uuid.UUID `db:"user_id"`
	Name         string    `db:"name"`
	SkinType     string    `db:"skin_type"`
	SkinConcerns []string  `db:"skin_concerns"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UpsertParams contains the writable profile fields.
type UpsertParams struct {
	UserID       uuid.UUID
	Name         string
	SkinType     string
	SkinConcerns []string
}

// Repository persists profiles.
type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (Profile, error)
	Upsert(ctx context.Context, params UpsertParams) (Profile, error)
}

// Repo implements Repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new profiles repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Get returns the profile or an apperr NotFound.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	query := `
		SELECT user_id, name, skin_type, skin_concerns, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	profile, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Profile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, apperr.NotFound(profileNotFoundMessage).WithCode(apperr.CodeProfileNotFound)
		}
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if profile.SkinConcerns == nil {
		profile.SkinConcerns = []string{}
	}
	return profile, nil
}

// Upsert creates or replaces the profile.
func (r *Repo) Upsert(ctx context.Context, params UpsertParams) (Profile, error) {
	concerns := params.SkinConcerns
	if concerns == nil {
		concerns = []string{}
	}
	query := `
		INSERT INTO profiles (user_id, name, skin_type, skin_concerns)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name,
			skin_type = EXCLUDED.skin_type,
			skin_concerns = EXCLUDED.skin_concerns,
			updated_at = now()
		RETURNING user_id, name, skin_type, skin_concerns, created_at, updated_at`

	rows, err := r.pool.Query(ctx, query, params.UserID, params.Name, params.SkinType, concerns)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	profile, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Profile])
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	if profile.SkinConcerns == nil {
		profile.SkinConcerns = []string{}
	}
	return profile, nil
}
