package agent

import (
	"simplyskin/platform/ai/llmjson"
	"simplyskin/platform/sanitize"
)

// ProductInfo identifies the product under review.
type ProductInfo struct {
	Title string
	Brand string
}

// SkinProfile is the part of a user profile the prompts use.
type SkinProfile struct {
	Name     string
	SkinType string
	Concerns []string
}

// ProductRating is a validated product rating.
type ProductRating struct {
	Rating  float64
	Summary string
	Pros    []string
	Cons    []string
}

// FaceAnalysis is a validated face assessment. Scores are 1 to 100.
type FaceAnalysis struct {
	Redness   float64
	Acne      float64
	Hydration float64
	Overall   float64
	Analysis  string
	Tips      []string
}

// Wire shapes of the model replies. Required fields are pointers so an
// absent field is distinguishable from a zero value.

type productClassificationReply struct {
	IsSkincare *bool `json:"is_skincare" validate:"required"`
}

type productRatingReply struct {
	Rating  *llmjson.Score  `json:"rating" validate:"required,gte=0,lte=10"`
	Summary *string         `json:"summary" validate:"required"`
	Pros    llmjson.Strings `json:"pros"`
	Cons    llmjson.Strings `json:"cons"`
}

type faceClassificationReply struct {
	IsFace *bool `json:"is_face" validate:"required"`
}

type faceAnalysisReply struct {
	Redness   *llmjson.Score  `json:"redness" validate:"required,gte=1,lte=100"`
	Acne      *llmjson.Score  `json:"acne" validate:"required,gte=1,lte=100"`
	Hydration *llmjson.Score  `json:"hydration" validate:"required,gte=1,lte=100"`
	Overall   *llmjson.Score  `json:"overall" validate:"required,gte=1,lte=100"`
	Analysis  *string         `json:"analysis" validate:"required"`
	Tips      llmjson.Strings `json:"tips" validate:"required"`
}

func (r *productRatingReply) toRating() *ProductRating {
	return &ProductRating{
		Rating:  float64(*r.Rating),
		Summary: sanitize.Text(*r.Summary),
		Pros:    sanitize.Texts(r.Pros.Values()),
		Cons:    sanitize.Texts(r.Cons.Values()),
	}
}

func (r *faceAnalysisReply) toAnalysis() *FaceAnalysis {
	return &FaceAnalysis{
		Redness:   float64(*r.Redness),
		Acne:      float64(*r.Acne),
		Hydration: float64(*r.Hydration),
		Overall:   float64(*r.Overall),
		Analysis:  sanitize.Text(*r.Analysis),
		Tips:      sanitize.Texts(r.Tips.Values()),
	}
}
