// Package service implements the product and face scan pipelines and the
// scan history listing.
package service

import (
	"errors"

	"simplyskin/internal/scans/ports"
	"simplyskin/internal/scans/repository"
	"simplyskin/platform/ai/llmjson"
	"simplyskin/platform/apperr"
	"simplyskin/platform/logger"
)

const (
	scanKindProduct = "product"
	scanKindFace    = "face"

	// DefaultListLimit and MaxListLimit bound history pages.
	DefaultListLimit = 20
	MaxListLimit     = 100

	// maxConcurrentSigns bounds parallel URL signing in history listings.
	maxConcurrentSigns = 8
)

// Deps groups the collaborators of the scan service. Analyzer, FaceSigner and
// HistorySigner may be nil when the LLM or object storage is not configured.
type Deps struct {
	Repo          repository.Repository
	Profiles      ports.ProfileReader
	Lookup        ports.ProductLookup
	Analyzer      ports.Analyzer
	FaceSigner    ports.ImageSigner
	HistorySigner ports.ImageSigner
	Log           *logger.Logger
}

// Service handles scan business logic.
type Service struct {
	repo          repository.Repository
	profiles      ports.ProfileReader
	lookup        ports.ProductLookup
	analyzer      ports.Analyzer
	faceSigner    ports.ImageSigner
	historySigner ports.ImageSigner
	log           *logger.Logger
}

// New creates a scan service.
func New(deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		repo:          deps.Repo,
		profiles:      deps.Profiles,
		lookup:        deps.Lookup,
		analyzer:      deps.Analyzer,
		faceSigner:    deps.FaceSigner,
		historySigner: deps.HistorySigner,
		log:           log,
	}
}

// ProductReady reports whether product scans can run.
func (s *Service) ProductReady() error {
	if s.analyzer == nil || s.lookup == nil {
		return configError()
	}
	return nil
}

// FaceReady reports whether face scans can run.
func (s *Service) FaceReady() error {
	if s.analyzer == nil || s.faceSigner == nil {
		return configError()
	}
	return nil
}

func configError() error {
	return apperr.Internal("server configuration error").WithCode(apperr.CodeConfig)
}

// llmError maps analyzer failures onto the tagged error codes.
func llmError(op string, err error) error {
	switch {
	case errors.Is(err, llmjson.ErrMalformed):
		return apperr.Wrap(apperr.KindInternal, "model returned malformed JSON", err).
			WithCode(apperr.CodeLLMMalformedJSON).WithOp(op)
	case errors.Is(err, llmjson.ErrIncomplete):
		appErr := apperr.Wrap(apperr.KindInternal, "model response is missing required fields", err).
			WithCode(apperr.CodeLLMIncompleteResponse).WithOp(op)
		var decodeErr *llmjson.DecodeError
		if errors.As(err, &decodeErr) && len(decodeErr.Fields) > 0 {
			appErr = appErr.WithDetails(map[string][]string{"fields": decodeErr.Fields})
		}
		return appErr
	default:
		return apperr.Wrap(apperr.KindInternal, "model request failed", err).
			WithCode(apperr.CodeLLMFailed).WithOp(op)
	}
}

func persistenceError(op string, err error) error {
	return apperr.Wrap(apperr.KindInternal, "failed to save scan result", err).
		WithCode(apperr.CodePersistenceFailed).WithOp(op)
}

// ClampLimit applies the history page bounds.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
