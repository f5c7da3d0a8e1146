package service

import (
	"context"

	"simplyskin/internal/scans/repository"
	"simplyskin/platform/apperr"

	"github.com/google/uuid"
)

// ScanFace signs the uploaded image, checks it shows a face, analyses the
// skin for the user and stores the result. The signed URL is created fresh
// for every call.
func (s *Service) ScanFace(ctx context.Context, userID uuid.UUID, imagePath string) (repository.ScannedFace, error) {
	const op = "scans.ScanFace"
	log := s.log.WithContext(ctx)

	if err := s.FaceReady(); err != nil {
		return repository.ScannedFace{}, err
	}

	profile, err := s.profiles.GetSkinProfile(ctx, userID)
	if err != nil {
		log.Warn("profile unavailable for face scan", "user_id", userID, "error", err)
		return repository.ScannedFace{}, apperr.Wrap(apperr.KindInternal, "unable to load user profile", err).
			WithCode(apperr.CodeProfileUnavailable).WithOp(op)
	}

	imageURL, err := s.faceSigner.SignFaceImage(ctx, imagePath)
	if err != nil {
		return repository.ScannedFace{}, apperr.Wrap(apperr.KindInternal, "failed to create signed image URL", err).
			WithCode(apperr.CodeSignedURLFailed).WithOp(op)
	}

	isFace, err := s.analyzer.ClassifyFace(ctx, imageURL)
	if err != nil {
		return repository.ScannedFace{}, llmError(op, err)
	}
	if !isFace {
		log.ScanEvent(scanKindFace, userID.String(), "invalid_face_image")
		return repository.ScannedFace{}, apperr.BadRequest("the image does not show a face that can be analyzed").
			WithCode(apperr.CodeInvalidFaceImage).WithOp(op)
	}

	analysis, err := s.analyzer.AnalyzeFace(ctx, imageURL, profile)
	if err != nil {
		return repository.ScannedFace{}, llmError(op, err)
	}

	row, err := s.repo.CreateFace(ctx, repository.CreateFaceParams{
		UserID:    userID,
		Redness:   analysis.Redness,
		Acne:      analysis.Acne,
		Hydration: analysis.Hydration,
		Overall:   analysis.Overall,
		Analysis:  analysis.Analysis,
		Tips:      analysis.Tips,
		ImagePath: imagePath,
	})
	if err != nil {
		log.DatabaseError(op, err)
		return repository.ScannedFace{}, persistenceError(op, err)
	}

	log.ScanEvent(scanKindFace, userID.String(), "stored")
	return row, nil
}
