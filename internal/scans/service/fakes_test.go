package service

import (
	"context"
	"iter"
	"strings"
	"sync"
	"time"

	"simplyskin/internal/scans/agent"
	"simplyskin/internal/scans/ports"
	"simplyskin/internal/scans/repository"

	"github.com/google/uuid"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// routedLLM answers each prompt by the JSON field it asks for.
type routedLLM struct {
	mu       sync.Mutex
	replies  map[string]string
	errs     map[string]error
	calls    map[string]int
	imageURL []string
}

const (
	routeProductClassify = "is_skincare"
	routeProductRate     = `{"rating"`
	routeFaceClassify    = "is_face"
	routeFaceAnalyze     = `"redness"`
)

func newRoutedLLM() *routedLLM {
	return &routedLLM{
		replies: map[string]string{
			routeProductClassify: `{"is_skincare": true}`,
			routeProductRate:     `{"rating": 8, "summary": "Gentle and hydrating.", "pros": ["Ceramides", "Fragrance free", "Affordable"], "cons": []}`,
			routeFaceClassify:    `{"is_face": true}`,
			routeFaceAnalyze:     `{"redness": 70, "acne": 85, "hydration": 60, "overall": 72, "analysis": "Mild redness on the cheeks.", "tips": ["Use a gentle cleanser", "Apply SPF daily"]}`,
		},
		errs:  map[string]error{},
		calls: map[string]int{},
	}
}

func (l *routedLLM) Name() string { return "routed" }

func (l *routedLLM) GenerateContent(_ context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		route, prompt := "", ""
		content := req.Contents[0]
		for _, part := range content.Parts {
			if part.FileData != nil {
				l.mu.Lock()
				l.imageURL = append(l.imageURL, part.FileData.FileURI)
				l.mu.Unlock()
				continue
			}
			prompt += part.Text
		}
		for _, r := range []string{routeProductClassify, routeFaceClassify, routeProductRate, routeFaceAnalyze} {
			if strings.Contains(prompt, r) {
				route = r
				break
			}
		}

		l.mu.Lock()
		l.calls[route]++
		reply, err := l.replies[route], l.errs[route]
		l.mu.Unlock()

		if err != nil {
			yield(nil, err)
			return
		}
		yield(&model.LLMResponse{Content: genai.NewContentFromText(reply, genai.RoleModel)}, nil)
	}
}

func (l *routedLLM) set(route, reply string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.replies[route] = reply
}

func (l *routedLLM) fail(route string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs[route] = err
}

func (l *routedLLM) count(route string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[route]
}

func (l *routedLLM) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		n += c
	}
	return n
}

type memoryRepo struct {
	mu        sync.Mutex
	products  []repository.ScannedProduct
	faces     []repository.ScannedFace
	createErr error
	listErr   error
	lastList  repository.ListParams
}

func (r *memoryRepo) CreateProduct(_ context.Context, p repository.CreateProductParams) (repository.ScannedProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return repository.ScannedProduct{}, r.createErr
	}
	row := repository.ScannedProduct{
		ID: uuid.New(), UserID: p.UserID, UPC: p.UPC, Name: p.Name, Brand: p.Brand,
		Rating: p.Rating, Summary: p.Summary, Pros: p.Pros, Cons: p.Cons, Image: p.Image,
		CreatedAt: time.Now(),
	}
	r.products = append(r.products, row)
	return row, nil
}

func (r *memoryRepo) CreateFace(_ context.Context, p repository.CreateFaceParams) (repository.ScannedFace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return repository.ScannedFace{}, r.createErr
	}
	row := repository.ScannedFace{
		ID: uuid.New(), UserID: p.UserID, Redness: p.Redness, Acne: p.Acne, Hydration: p.Hydration,
		Overall: p.Overall, Analysis: p.Analysis, Tips: p.Tips, ImagePath: p.ImagePath,
		CreatedAt: time.Now(),
	}
	r.faces = append(r.faces, row)
	return row, nil
}

func (r *memoryRepo) ListProducts(_ context.Context, p repository.ListParams) ([]repository.ScannedProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = p
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]repository.ScannedProduct{}, r.products...), nil
}

func (r *memoryRepo) ListFaces(_ context.Context, p repository.ListParams) ([]repository.ScannedFace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = p
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]repository.ScannedFace{}, r.faces...), nil
}

func (r *memoryRepo) productCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products)
}

func (r *memoryRepo) faceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.faces)
}

type stubProfiles struct {
	profile agent.SkinProfile
	err     error
	calls   int
}

func (p *stubProfiles) GetSkinProfile(context.Context, uuid.UUID) (agent.SkinProfile, error) {
	p.calls++
	return p.profile, p.err
}

type stubLookup struct {
	product ports.LookedUpProduct
	err     error
	calls   int
}

func (l *stubLookup) LookupBarcode(context.Context, string) (ports.LookedUpProduct, error) {
	l.calls++
	return l.product, l.err
}

type stubSigner struct {
	mu    sync.Mutex
	fail  map[string]error
	calls int
}

func (s *stubSigner) SignFaceImage(_ context.Context, imagePath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := s.fail[imagePath]; err != nil {
		return "", err
	}
	return "https://signed.example/" + imagePath + "?sig=1", nil
}

func (s *stubSigner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func repositoryFace(imagePath string) repository.CreateFaceParams {
	return repository.CreateFaceParams{
		UserID:    uuid.New(),
		Redness:   50,
		Acne:      50,
		Hydration: 50,
		Overall:   50,
		Analysis:  "ok",
		Tips:      []string{},
		ImagePath: imagePath,
	}
}
