package adapters

import (
	"context"

	profilerepo "simplyskin/internal/profiles/repository"
	"simplyskin/internal/scans/agent"
	"simplyskin/internal/scans/ports"
	"simplyskin/platform/apperr"

	"github.com/google/uuid"
)

// ScansProfileReader exposes stored profiles to the scans module.
type ScansProfileReader struct {
	repo profilerepo.Repository
}

// NewScansProfileReader creates a new profile reader adapter.
func NewScansProfileReader(repo profilerepo.Repository) *ScansProfileReader {
	return &ScansProfileReader{repo: repo}
}

// GetSkinProfile loads the user's profile. A missing row maps to ports.ErrProfileNotFound.
func (r *ScansProfileReader) GetSkinProfile(ctx context.Context, userID uuid.UUID) (agent.SkinProfile, error) {
	profile, err := r.repo.Get(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return agent.SkinProfile{}, ports.ErrProfileNotFound
		}
		return agent.SkinProfile{}, err
	}
	return agent.SkinProfile{
		Name:     profile.Name,
		SkinType: profile.SkinType,
		Concerns: profile.SkinConcerns,
	}, nil
}

// Compile-time check that ScansProfileReader implements ports.ProfileReader.
var _ ports.ProfileReader = (*ScansProfileReader)(nil)
