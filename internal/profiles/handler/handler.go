package handler

import (
	"net/http"

	"simplyskin/internal/profiles/service"
	"simplyskin/internal/profiles/transport"
	"simplyskin/platform/apperr"
	"simplyskin/platform/httpkit"
	"simplyskin/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidUserID = "user_id must be a UUID"

// Handler handles HTTP requests for profiles.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new profiles handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Get returns a profile.
// GET /api/profiles/:user_id
func (h *Handler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProfileEnvelope(profile))
}

// Update creates or replaces a profile.
// PUT /api/profiles/:user_id
func (h *Handler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req transport.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.BindError(c)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), userID, req.Name, req.SkinType, req.SkinConcerns)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProfileEnvelope(profile))
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, apperr.CodeInvalidInput, msgInvalidUserID, nil)
		return uuid.Nil, false
	}
	if !httpkit.AuthorizeUser(c, userID) {
		return uuid.Nil, false
	}
	return userID, true
}
