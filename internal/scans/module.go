// Package scans provides the scans bounded context: product ratings, face
// analyses and their history.
package scans

import (
	apphttp "simplyskin/internal/http"
	"simplyskin/internal/scans/handler"
	"simplyskin/internal/scans/service"
	"simplyskin/platform/validator"
)

// Module is the scans bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the scans module. deps.Repo must be set.
func NewModule(deps service.Deps, val *validator.Validator) *Module {
	svc := service.New(deps)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scans"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts scan routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Analysis endpoints call the model and are rate limited per IP.
	analysis := ctx.Protected.Group("")
	if ctx.ScanRateLimiter != nil {
		analysis.Use(ctx.ScanRateLimiter.RateLimit())
	}
	analysis.POST("/product", m.handler.ScanProduct)
	analysis.POST("/face", m.handler.ScanFace)

	ctx.Protected.GET("/scans/products", m.handler.ListProducts)
	ctx.Protected.GET("/scans/faces", m.handler.ListFaces)
}
