package transport

import (
	"strings"
	"time"

	"simplyskin/internal/scans/repository"
	"simplyskin/internal/scans/service"

	"github.com/google/uuid"
)

// Requests

type ProductScanRequest struct {
	UPC    string `json:"upc" validate:"required,numeric,min=8,max=14"`
	UserID string `json:"user_id" validate:"required,uuid"`
}

// Normalize trims surrounding whitespace.
func (r *ProductScanRequest) Normalize() {
	r.UPC = strings.TrimSpace(r.UPC)
	r.UserID = strings.TrimSpace(r.UserID)
}

type FaceScanRequest struct {
	Img    string `json:"img" validate:"required,max=1024"`
	UserID string `json:"user_id" validate:"required,uuid"`
}

// Normalize trims surrounding whitespace.
func (r *FaceScanRequest) Normalize() {
	r.Img = strings.TrimSpace(r.Img)
	r.UserID = strings.TrimSpace(r.UserID)
}

type ListScansRequest struct {
	UserID string `form:"user_id" json:"user_id" validate:"required,uuid"`
	Limit  int    `form:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

// Responses

type ScannedProductResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UPC       string    `json:"upc"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Rating    float64   `json:"rating"`
	Summary   string    `json:"summary"`
	Pros      []string  `json:"pros"`
	Cons      []string  `json:"cons"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type ScannedFaceResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Redness   float64   `json:"redness"`
	Acne      float64   `json:"acne"`
	Hydration float64   `json:"hydration"`
	Overall   float64   `json:"overall"`
	Analysis  string    `json:"analysis"`
	Tips      []string  `json:"tips"`
	ImagePath string    `json:"image_path"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductScanResponse is the body of a successful product scan.
type ProductScanResponse struct {
	Success bool                   `json:"success"`
	Data    ScannedProductResponse `json:"data"`
}

// FaceScanResponse is the body of a successful face scan.
type FaceScanResponse struct {
	Success bool                `json:"success"`
	Result  ScannedFaceResponse `json:"result"`
}

type ProductListResponse struct {
	Success bool                     `json:"success"`
	Items   []ScannedProductResponse `json:"items"`
}

type FaceListResponse struct {
	Success bool                  `json:"success"`
	Items   []ScannedFaceResponse `json:"items"`
}

// Mapping

func ToProductResponse(p repository.ScannedProduct) ScannedProductResponse {
	return ScannedProductResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		UPC:       p.UPC,
		Name:      p.Name,
		Brand:     p.Brand,
		Rating:    p.Rating,
		Summary:   p.Summary,
		Pros:      orEmpty(p.Pros),
		Cons:      orEmpty(p.Cons),
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}
}

func ToFaceResponse(f repository.ScannedFace) ScannedFaceResponse {
	return ScannedFaceResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Redness:   f.Redness,
		Acne:      f.Acne,
		Hydration: f.Hydration,
		Overall:   f.Overall,
		Analysis:  f.Analysis,
		Tips:      orEmpty(f.Tips),
		ImagePath: f.ImagePath,
		CreatedAt: f.CreatedAt,
	}
}

func ToProductList(items []repository.ScannedProduct) ProductListResponse {
	out := make([]ScannedProductResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToProductResponse(item))
	}
	return ProductListResponse{Success: true, Items: out}
}

func ToFaceList(items []service.FaceWithURL) FaceListResponse {
	out := make([]ScannedFaceResponse, 0, len(items))
	for _, item := range items {
		resp := ToFaceResponse(item.ScannedFace)
		resp.ImageURL = item.ImageURL
		out = append(out, resp)
	}
	return FaceListResponse{Success: true, Items: out}
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
