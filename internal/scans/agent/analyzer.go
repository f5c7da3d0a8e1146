// Package agent wraps the language model calls behind the scan pipelines:
// product classification and rating, face classification and analysis.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"simplyskin/platform/ai/llmjson"
	"simplyskin/platform/ai/openai"
	"simplyskin/platform/logger"
	"simplyskin/platform/retry"
	"simplyskin/platform/validator"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// ErrModelCall marks failures to obtain a reply from the model.
var ErrModelCall = errors.New("model call failed")

// Analyzer runs the four scan prompts against a model.
type Analyzer struct {
	llm     model.LLM
	prompts *Prompts
	val     *validator.Validator
	policy  retry.Policy
	log     *logger.Logger
}

// NewAnalyzer creates an analyzer. The prompt catalog is loaded from the
// embedded YAML.
func NewAnalyzer(llm model.LLM, val *validator.Validator, policy retry.Policy, log *logger.Logger) (*Analyzer, error) {
	if llm == nil {
		return nil, fmt.Errorf("model is required")
	}
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, err
	}
	return &Analyzer{llm: llm, prompts: prompts, val: val, policy: policy, log: log}, nil
}

// ClassifyProduct asks whether the product is a skincare product.
func (a *Analyzer) ClassifyProduct(ctx context.Context, product ProductInfo) (bool, error) {
	prompt, err := a.prompts.Render(promptProductClassify, sanitizeProduct(product))
	if err != nil {
		return false, err
	}
	reply, err := ask[productClassificationReply](ctx, a, promptProductClassify, textContent(prompt))
	if err != nil {
		return false, err
	}
	return *reply.IsSkincare, nil
}

// RateProduct rates a skincare product for the given profile.
func (a *Analyzer) RateProduct(ctx context.Context, product ProductInfo, profile SkinProfile) (*ProductRating, error) {
	prompt, err := a.prompts.Render(promptProductRate, struct {
		Product ProductInfo
		Profile SkinProfile
	}{sanitizeProduct(product), sanitizeProfile(profile)})
	if err != nil {
		return nil, err
	}
	reply, err := ask[productRatingReply](ctx, a, promptProductRate, textContent(prompt))
	if err != nil {
		return nil, err
	}

	rating := reply.toRating()
	if !MatchesRubric(rating.Rating, len(rating.Pros), len(rating.Cons)) {
		a.log.WithContext(ctx).Warn("rubric_mismatch",
			"rating", rating.Rating,
			"pros", len(rating.Pros),
			"cons", len(rating.Cons),
		)
	}
	return rating, nil
}

// ClassifyFace asks whether the image shows a face suitable for assessment.
func (a *Analyzer) ClassifyFace(ctx context.Context, imageURL string) (bool, error) {
	prompt, err := a.prompts.Render(promptFaceClassify, nil)
	if err != nil {
		return false, err
	}
	reply, err := ask[faceClassificationReply](ctx, a, promptFaceClassify, imageContent(prompt, imageURL))
	if err != nil {
		return false, err
	}
	return *reply.IsFace, nil
}

// AnalyzeFace scores the skin in the image for the given profile.
func (a *Analyzer) AnalyzeFace(ctx context.Context, imageURL string, profile SkinProfile) (*FaceAnalysis, error) {
	prompt, err := a.prompts.Render(promptFaceAnalyze, struct {
		Profile SkinProfile
	}{sanitizeProfile(profile)})
	if err != nil {
		return nil, err
	}
	reply, err := ask[faceAnalysisReply](ctx, a, promptFaceAnalyze, imageContent(prompt, imageURL))
	if err != nil {
		return nil, err
	}
	return reply.toAnalysis(), nil
}

// ask sends one prompt, retrying transient model failures, and decodes the
// reply into T. Decode failures are returned as *llmjson.DecodeError and are
// not retried.
func ask[T any](ctx context.Context, a *Analyzer, operation string, content *genai.Content) (*T, error) {
	req := &model.LLMRequest{
		Model:    a.llm.Name(),
		Contents: []*genai.Content{content},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(a.prompts.System(), genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.2),
			ResponseMIMEType:  "application/json",
		},
	}

	var text string
	start := time.Now()
	err := a.policy.Do(ctx, a.log, "llm."+operation, func(ctx context.Context) error {
		out, err := generate(ctx, a.llm, req)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	a.log.WithContext(ctx).UpstreamCall("llm", operation, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelCall, operation, err)
	}

	reply, err := llmjson.Decode[T](text, a.val)
	if err != nil {
		a.log.WithContext(ctx).Warn("llm reply rejected", "operation", operation, "error", err)
		return nil, err
	}
	return reply, nil
}

func generate(ctx context.Context, llm model.LLM, req *model.LLMRequest) (string, error) {
	var sb strings.Builder
	for resp, err := range llm.GenerateContent(ctx, req, false) {
		if err != nil {
			return "", err
		}
		sb.WriteString(openai.ResponseText(resp))
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("empty model reply")
	}
	return sb.String(), nil
}

func textContent(prompt string) *genai.Content {
	return genai.NewContentFromText(prompt, genai.RoleUser)
}

func imageContent(prompt, imageURL string) *genai.Content {
	return genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromURI(imageURL, "image/jpeg"),
	}, genai.RoleUser)
}

func sanitizeProduct(p ProductInfo) ProductInfo {
	return ProductInfo{
		Title: sanitizeUserInput(p.Title, maxUserField),
		Brand: sanitizeUserInput(p.Brand, maxUserField),
	}
}

func sanitizeProfile(p SkinProfile) SkinProfile {
	concerns := make([]string, 0, len(p.Concerns))
	for _, c := range p.Concerns {
		if c = sanitizeUserInput(c, maxUserField); c != "" {
			concerns = append(concerns, c)
		}
	}
	skinType := sanitizeUserInput(p.SkinType, maxUserField)
	if skinType == "" {
		skinType = "unknown"
	}
	return SkinProfile{
		Name:     sanitizeUserInput(p.Name, maxUserField),
		SkinType: skinType,
		Concerns: concerns,
	}
}
