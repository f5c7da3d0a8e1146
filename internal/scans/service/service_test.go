package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"simplyskin/internal/scans/agent"
	"simplyskin/internal/scans/ports"
	"simplyskin/platform/apperr"
	"simplyskin/platform/logger"
	"simplyskin/platform/retry"
	"simplyskin/platform/validator"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      *Service
	llm      *routedLLM
	repo     *memoryRepo
	profiles *stubProfiles
	lookup   *stubLookup
	signer   *stubSigner
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	llm := newRoutedLLM()
	analyzer, err := agent.NewAnalyzer(llm, validator.New(), retry.NoRetry(), logger.Discard())
	require.NoError(t, err)

	h := &harness{
		llm:  llm,
		repo: &memoryRepo{},
		profiles: &stubProfiles{profile: agent.SkinProfile{
			Name:     "Robin",
			SkinType: "sensitive",
			Concerns: []string{"redness", "dryness"},
		}},
		lookup: &stubLookup{product: ports.LookedUpProduct{
			Title: "Hydrating Facial Cleanser",
			Brand: "CeraVe",
			Image: "https://img.example/cleanser.jpg",
		}},
		signer: &stubSigner{fail: map[string]error{}},
	}
	h.svc = New(Deps{
		Repo:          h.repo,
		Profiles:      h.profiles,
		Lookup:        h.lookup,
		Analyzer:      analyzer,
		FaceSigner:    h.signer,
		HistorySigner: h.signer,
		Log:           logger.Discard(),
	})
	return h
}

func requireAppErr(t *testing.T, err error, status int, code string) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %T: %v", err, err)
	assert.Equal(t, status, appErr.HTTPStatus())
	assert.Equal(t, code, appErr.ErrorCode())
	return appErr
}

func TestScanProductStoresRating(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	row, err := h.svc.ScanProduct(context.Background(), userID, "012345678905")
	require.NoError(t, err)

	assert.Equal(t, userID, row.UserID)
	assert.Equal(t, "012345678905", row.UPC)
	assert.Equal(t, "Hydrating Facial Cleanser", row.Name)
	assert.Equal(t, "CeraVe", row.Brand)
	assert.Equal(t, "https://img.example/cleanser.jpg", row.Image)
	assert.Equal(t, 8.0, row.Rating)
	assert.Equal(t, "Gentle and hydrating.", row.Summary)
	assert.Len(t, row.Pros, 3)
	assert.NotNil(t, row.Cons)
	assert.Empty(t, row.Cons)

	assert.Equal(t, 1, h.llm.count(routeProductClassify))
	assert.Equal(t, 1, h.llm.count(routeProductRate))
	assert.Equal(t, 1, h.repo.productCount())
}

func TestScanProductTwiceStoresTwoRows(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	first, err := h.svc.ScanProduct(context.Background(), userID, "012345678905")
	require.NoError(t, err)
	second, err := h.svc.ScanProduct(context.Background(), userID, "012345678905")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, h.repo.productCount())
	assert.Equal(t, 2, h.lookup.calls)
}

func TestScanProductMissingProfile(t *testing.T) {
	h := newHarness(t)
	h.profiles.err = ports.ErrProfileNotFound

	_, err := h.svc.ScanProduct(context.Background(), uuid.New(), "012345678905")
	requireAppErr(t, err, http.StatusBadRequest, apperr.CodeProfileUnavailable)
	assert.Zero(t, h.lookup.calls)
	assert.Zero(t, h.llm.total())
}

func TestScanProductUnknownBarcode(t *testing.T) {
	h := newHarness(t)
	h.lookup.err = ports.ErrProductNotFound

	_, err := h.svc.ScanProduct(context.Background(), uuid.New(), "000000000000")
	requireAppErr(t, err, http.StatusNotFound, apperr.CodeProductNotFound)
	assert.Zero(t, h.llm.total())
	assert.Zero(t, h.repo.productCount())
}

func TestScanProductLookupFailure(t *testing.T) {
	h := newHarness(t)
	h.lookup.err = errors.New("connection refused")

	_, err := h.svc.ScanProduct(context.Background(), uuid.New(), "012345678905")
	requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeUpstreamFailed)
	assert.Zero(t, h.llm.total())
}

func TestScanProductNotSkincare(t *testing.T) {
	h := newHarness(t)
	h.lookup.product = ports.LookedUpProduct{Title: "Sea Salt Potato Chips", Brand: "Crunch"}
	h.llm.set(routeProductClassify, `{"is_skincare": false}`)

	_, err := h.svc.ScanProduct(context.Background(), uuid.New(), "012345678905")
	requireAppErr(t, err, http.StatusBadRequest, apperr.CodeNotSkincare)
	assert.Zero(t, h.llm.count(routeProductRate))
	assert.Zero(t, h.repo.productCount())
}

func TestScanProductModelFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*routedLLM)
		code  string
	}{
		{
			name:  "classification call fails",
			setup: func(l *routedLLM) { l.fail(routeProductClassify, errors.New("401 unauthorized")) },
			code:  apperr.CodeLLMFailed,
		},
		{
			name:  "rating is prose",
			setup: func(l *routedLLM) { l.set(routeProductRate, "I think it's a great product!") },
			code:  apperr.CodeLLMMalformedJSON,
		},
		{
			name:  "rating out of range",
			setup: func(l *routedLLM) { l.set(routeProductRate, `{"rating": 42, "summary": "x"}`) },
			code:  apperr.CodeLLMIncompleteResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h.llm)

			_, err := h.svc.ScanProduct(context.Background(), uuid.New(), "012345678905")
			requireAppErr(t, err, http.StatusInternalServerError, tt.code)
			assert.Zero(t, h.repo.productCount())
		})
	}
}

func TestScanProductIncompleteReplyListsFields(t *testing.T) {
	h := newHarness(t)
	h.llm.set(routeProductRate, `{"pros": ["a"], "cons": ["b"]}`)

	_, err := h.svc.ScanProduct(context.Background(), uuid.New(), "012345678905")
	appErr := requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeLLMIncompleteResponse)
	assert.Equal(t, map[string][]string{"fields": {"rating", "summary"}}, appErr.Details)
}

func TestScanProductPersistenceFailure(t *testing.T) {
	h := newHarness(t)
	h.repo.createErr = errors.New("disk full")

	_, err := h.svc.ScanProduct(context.Background(), uuid.New(), "012345678905")
	requireAppErr(t, err, http.StatusInternalServerError, apperr.CodePersistenceFailed)
}

func TestScanProductWithoutAnalyzerIsConfigError(t *testing.T) {
	svc := New(Deps{Repo: &memoryRepo{}, Profiles: &stubProfiles{}, Lookup: &stubLookup{}})

	_, err := svc.ScanProduct(context.Background(), uuid.New(), "012345678905")
	requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeConfig)
	assert.Error(t, svc.FaceReady())
}

func TestScanFaceStoresAnalysis(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()

	row, err := h.svc.ScanFace(context.Background(), userID, "users/robin/face.jpg")
	require.NoError(t, err)

	assert.Equal(t, userID, row.UserID)
	assert.Equal(t, 70.0, row.Redness)
	assert.Equal(t, 85.0, row.Acne)
	assert.Equal(t, 60.0, row.Hydration)
	assert.Equal(t, 72.0, row.Overall)
	assert.Equal(t, "users/robin/face.jpg", row.ImagePath)
	assert.Equal(t, []string{"Use a gentle cleanser", "Apply SPF daily"}, row.Tips)

	assert.Equal(t, 1, h.signer.count())
	require.Len(t, h.llm.imageURL, 2)
	for _, u := range h.llm.imageURL {
		assert.Equal(t, "https://signed.example/users/robin/face.jpg?sig=1", u)
	}
}

func TestScanFaceSignsFreshURLEachTime(t *testing.T) {
	h := newHarness(t)
	for range 2 {
		_, err := h.svc.ScanFace(context.Background(), uuid.New(), "a.jpg")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, h.signer.count())
	assert.Equal(t, 2, h.repo.faceCount())
}

func TestScanFaceFailures(t *testing.T) {
	t.Run("missing profile", func(t *testing.T) {
		h := newHarness(t)
		h.profiles.err = ports.ErrProfileNotFound
		_, err := h.svc.ScanFace(context.Background(), uuid.New(), "a.jpg")
		requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeProfileUnavailable)
		assert.Zero(t, h.signer.count())
	})

	t.Run("signing fails", func(t *testing.T) {
		h := newHarness(t)
		h.signer.fail["a.jpg"] = errors.New("bucket unreachable")
		_, err := h.svc.ScanFace(context.Background(), uuid.New(), "a.jpg")
		requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeSignedURLFailed)
		assert.Zero(t, h.llm.total())
	})

	t.Run("not a face", func(t *testing.T) {
		h := newHarness(t)
		h.llm.set(routeFaceClassify, `{"is_face": false}`)
		_, err := h.svc.ScanFace(context.Background(), uuid.New(), "cat.jpg")
		requireAppErr(t, err, http.StatusBadRequest, apperr.CodeInvalidFaceImage)
		assert.Zero(t, h.llm.count(routeFaceAnalyze))
		assert.Zero(t, h.repo.faceCount())
	})

	t.Run("analysis malformed", func(t *testing.T) {
		h := newHarness(t)
		h.llm.set(routeFaceAnalyze, `{"redness": 70,`)
		_, err := h.svc.ScanFace(context.Background(), uuid.New(), "a.jpg")
		requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeLLMMalformedJSON)
	})

	t.Run("score out of range", func(t *testing.T) {
		h := newHarness(t)
		h.llm.set(routeFaceAnalyze, `{"redness": 0, "acne": 85, "hydration": 60, "overall": 72, "analysis": "x", "tips": []}`)
		_, err := h.svc.ScanFace(context.Background(), uuid.New(), "a.jpg")
		requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeLLMIncompleteResponse)
	})
}

func TestScanFaceMissingFieldsNeverPersist(t *testing.T) {
	fields := []string{"redness", "acne", "hydration", "overall", "analysis", "tips"}
	values := map[string]string{
		"redness":   `70`,
		"acne":      `85`,
		"hydration": `60`,
		"overall":   `72`,
		"analysis":  `"ok"`,
		"tips":      `["SPF"]`,
	}

	properties := gopter.NewProperties(nil)
	properties.Property("any missing required field yields LLM_INCOMPLETE_RESPONSE", prop.ForAll(
		func(mask int) bool {
			var kept []string
			var dropped []string
			for i, f := range fields {
				if mask&(1<<i) != 0 {
					dropped = append(dropped, f)
					continue
				}
				kept = append(kept, `"`+f+`": `+values[f])
			}

			h := newHarness(t)
			h.llm.set(routeFaceAnalyze, "{"+strings.Join(kept, ", ")+"}")
			_, err := h.svc.ScanFace(context.Background(), uuid.New(), "a.jpg")

			appErr, ok := apperr.As(err)
			if !ok || appErr.ErrorCode() != apperr.CodeLLMIncompleteResponse {
				return false
			}
			details, ok := appErr.Details.(map[string][]string)
			return ok && assert.ObjectsAreEqual(dropped, details["fields"]) && h.repo.faceCount() == 0
		},
		gen.IntRange(1, 1<<len(fields)-1),
	))

	properties.TestingRun(t)
}

func TestListFacesSignsEachRowAndToleratesFailures(t *testing.T) {
	h := newHarness(t)
	userID := uuid.New()
	for _, p := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		_, err := h.svc.ScanFace(context.Background(), userID, p)
		require.NoError(t, err)
	}
	h.signer.fail["b.jpg"] = errors.New("expired credentials")

	items, err := h.svc.ListFaces(context.Background(), userID, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, DefaultListLimit, h.repo.lastList.Limit)

	urls := map[string]string{}
	for _, item := range items {
		urls[item.ImagePath] = item.ImageURL
	}
	assert.Equal(t, "https://signed.example/a.jpg?sig=1", urls["a.jpg"])
	assert.Empty(t, urls["b.jpg"])
	assert.Equal(t, "https://signed.example/c.jpg?sig=1", urls["c.jpg"])
}

func TestListFacesWithoutSignerLeavesURLsEmpty(t *testing.T) {
	repo := &memoryRepo{}
	_, _ = repo.CreateFace(context.Background(), repositoryFace("a.jpg"))
	svc := New(Deps{Repo: repo})

	items, err := svc.ListFaces(context.Background(), uuid.New(), 500)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].ImageURL)
	assert.Equal(t, MaxListLimit, repo.lastList.Limit)
}

func TestListProductsFailure(t *testing.T) {
	h := newHarness(t)
	h.repo.listErr = errors.New("timeout")

	_, err := h.svc.ListProducts(context.Background(), uuid.New(), 10)
	requireAppErr(t, err, http.StatusInternalServerError, apperr.CodeInternal)
	assert.Equal(t, 10, h.repo.lastList.Limit)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, ClampLimit(0))
	assert.Equal(t, DefaultListLimit, ClampLimit(-5))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxListLimit, ClampLimit(MaxListLimit+1))
}
