package handler

import (
	"errors"
	"io"
	"net/http"

	"simplyskin/internal/scans/service"
	"simplyskin/internal/scans/transport"
	"simplyskin/platform/apperr"
	"simplyskin/platform/httpkit"
	"simplyskin/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for scans.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new scans handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ScanProduct rates a product by barcode for a user.
// POST /api/product
func (h *Handler) ScanProduct(c *gin.Context) {
	var req transport.ProductScanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}
	userID := uuid.MustParse(req.UserID)
	if !httpkit.AuthorizeUser(c, userID) {
		return
	}

	row, err := h.svc.ScanProduct(c.Request.Context(), userID, req.UPC)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ProductScanResponse{Success: true, Data: transport.ToProductResponse(row)})
}

// ScanFace analyses an uploaded face image for a user.
// POST /api/face
func (h *Handler) ScanFace(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.FaceReady()) {
		return
	}

	var req transport.FaceScanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}
	userID := uuid.MustParse(req.UserID)
	if !httpkit.AuthorizeUser(c, userID) {
		return
	}

	row, err := h.svc.ScanFace(c.Request.Context(), userID, req.Img)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FaceScanResponse{Success: true, Result: transport.ToFaceResponse(row)})
}

// ListProducts returns the user's product scan history.
// GET /api/scans/products
func (h *Handler) ListProducts(c *gin.Context) {
	userID, limit, ok := h.bindList(c)
	if !ok {
		return
	}

	items, err := h.svc.ListProducts(c.Request.Context(), userID, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProductList(items))
}

// ListFaces returns the user's face scan history with signed image URLs.
// GET /api/scans/faces
func (h *Handler) ListFaces(c *gin.Context) {
	userID, limit, ok := h.bindList(c)
	if !ok {
		return
	}

	items, err := h.svc.ListFaces(c.Request.Context(), userID, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToFaceList(items))
}

// bindJSON decodes the body. An empty body decodes to the zero request so
// that field validation reports what is missing.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.BindError(c)
		return false
	}
	return true
}

func (h *Handler) bindList(c *gin.Context) (uuid.UUID, int, bool) {
	var req transport.ListScansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, apperr.CodeInvalidInput, "invalid query parameters", nil)
		return uuid.Nil, 0, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return uuid.Nil, 0, false
	}
	userID := uuid.MustParse(req.UserID)
	if !httpkit.AuthorizeUser(c, userID) {
		return uuid.Nil, 0, false
	}
	return userID, req.Limit, true
}
