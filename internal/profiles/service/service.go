// Package service implements profile reads and writes.
package service

import (
	"context"
	"strings"

	"simplyskin/internal/profiles/repository"
	"simplyskin/platform/apperr"
	"simplyskin/platform/logger"

	"github.com/google/uuid"
)

// SkinTypes lists the accepted skin_type values.
var SkinTypes = []string{"oily", "dry", "combination", "normal", "sensitive"}

const maxConcerns = 20

// Service handles profile business logic.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a profile service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Get returns the user's profile.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	return s.repo.Get(ctx, userID)
}

// Update normalizes and stores the profile.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, name, skinType string, concerns []string) (repository.Profile, error) {
	skinType = NormalizeSkinType(skinType)
	if skinType != "" && !isKnownSkinType(skinType) {
		return repository.Profile{}, apperr.Validation("unknown skin type").
			WithDetails(map[string]any{"allowed": SkinTypes})
	}

	cleaned := NormalizeConcerns(concerns)
	if len(cleaned) > maxConcerns {
		return repository.Profile{}, apperr.Validation("too many skin concerns")
	}

	profile, err := s.repo.Upsert(ctx, repository.UpsertParams{
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		SkinType:     skinType,
		SkinConcerns: cleaned,
	})
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("profiles.Update", err)
		return repository.Profile{}, apperr.Wrap(apperr.KindInternal, "failed to save profile", err).
			WithCode(apperr.CodePersistenceFailed)
	}
	return profile, nil
}

// NormalizeSkinType trims and lower-cases a skin type.
func NormalizeSkinType(skinType string) string {
	return strings.ToLower(strings.TrimSpace(skinType))
}

// NormalizeConcerns trims entries, drops blanks and case-insensitive
// duplicates, and keeps the first spelling and order. Never returns nil.
func NormalizeConcerns(concerns []string) []string {
	out := make([]string, 0, len(concerns))
	seen := make(map[string]struct{}, len(concerns))
	for _, c := range concerns {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func isKnownSkinType(skinType string) bool {
	for _, t := range SkinTypes {
		if t == skinType {
			return true
		}
	}
	return false
}
