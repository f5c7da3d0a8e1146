// Package profiles provides the profiles bounded context module.
package profiles

import (
	apphttp "simplyskin/internal/http"
	"simplyskin/internal/profiles/handler"
	"simplyskin/internal/profiles/repository"
	"simplyskin/internal/profiles/service"
	"simplyskin/platform/logger"
	"simplyskin/platform/validator"
)

// Module is the profiles bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the profiles module.
func NewModule(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "profiles"
}

// Repository returns the repository for cross-module adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts profile routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/profiles/:user_id", m.handler.Get)
	ctx.Protected.PUT("/profiles/:user_id", m.handler.Update)
}
