package transport

import (
	"time"

	"simplyskin/internal/profiles/repository"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	Name         string   `json:"name" validate:"max=200"`
	SkinType     string   `json:"skin_type" validate:"max=50"`
	SkinConcerns []string `json:"skin_concerns" validate:"max=50,dive,max=100"`
}

type ProfileResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	SkinType     string    `json:"skin_type"`
	SkinConcerns []string  `json:"skin_concerns"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProfileEnvelope struct {
	Success bool            `json:"success"`
	Data    ProfileResponse `json:"data"`
}

func ToProfileEnvelope(p repository.Profile) ProfileEnvelope {
	concerns := p.SkinConcerns
	if concerns == nil {
		concerns = []string{}
	}
	return ProfileEnvelope{
		Success: true,
		Data: ProfileResponse{
			UserID:       p.UserID,
			Name:         p.Name,
			SkinType:     p.SkinType,
			SkinConcerns: concerns,
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		},
	}
}
