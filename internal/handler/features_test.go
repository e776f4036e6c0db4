package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwonplus/academy-api/internal/ai"
	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/quota"
	"github.com/hakwonplus/academy-api/internal/service"
)

type stubResolver struct {
	tenant service.Tenant
	err    error
}

func (r stubResolver) Resolve(ctx context.Context, studentID uuid.UUID) (service.Tenant, error) {
	return r.tenant, r.err
}

type stubGenerator struct {
	err   error
	calls int
}

func (g *stubGenerator) result() (*ai.Result, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &ai.Result{Content: json.RawMessage(`{"problems":[]}`)}, nil
}

func (g *stubGenerator) GenerateSimilarProblems(ctx context.Context, req ai.SimilarProblemRequest) (*ai.Result, error) {
	return g.result()
}

func (g *stubGenerator) AnalyzeWeakConcepts(ctx context.Context, req ai.AnalysisRequest) (*ai.Result, error) {
	return g.result()
}

func (g *stubGenerator) AnalyzeCompetency(ctx context.Context, req ai.AnalysisRequest) (*ai.Result, error) {
	return g.result()
}

func (g *stubGenerator) GradeHomework(ctx context.Context, req ai.GradingRequest) (*ai.Result, error) {
	return g.result()
}

type featureFixture struct {
	router    *gin.Engine
	store     *quota.MemoryStore
	generator *stubGenerator
	tenant    service.Tenant
}

func newFeatureFixture(t *testing.T, resolverErr error, seed func(rec *models.DirectorLimitation)) *featureFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tenant := service.Tenant{DirectorID: uuid.New(), AcademyID: uuid.New()}
	store := quota.NewMemoryStore()

	if seed != nil {
		rec := &models.DirectorLimitation{
			DirectorID:       tenant.DirectorID,
			AcademyID:        tenant.AcademyID,
			DailyResetDate:   time.Now().UTC().Format("2006-01-02"),
			MonthlyResetDate: time.Now().UTC().Format("2006-01") + "-01",
		}
		seed(rec)
		require.NoError(t, store.Save(context.Background(), rec))
	}

	engine := quota.NewEngine(store)
	generator := &stubGenerator{}
	usage := service.NewUsageLogger(nil, 16)

	h := NewFeatureHandler(engine, stubResolver{tenant: tenant, err: resolverErr}, generator, usage)

	router := gin.New()
	router.POST("/api/students/generate-similar-problems", h.GenerateSimilarProblems)
	router.POST("/api/students/analysis", h.AnalyzeWeakConcepts)
	router.POST("/api/students/competency", h.AnalyzeCompetency)
	router.POST("/api/homework/grade", h.GradeHomework)

	return &featureFixture{router: router, store: store, generator: generator, tenant: tenant}
}

func (f *featureFixture) post(t *testing.T, path string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *featureFixture) record(t *testing.T) *models.DirectorLimitation {
	t.Helper()

	rec, err := f.store.Find(context.Background(), f.tenant.DirectorID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}

func TestGenerateSimilarProblemsAllowed(t *testing.T) {
	f := newFeatureFixture(t, nil, func(rec *models.DirectorLimitation) {
		rec.SimilarProblem.Enabled = true
		rec.SimilarProblem.DailyLimit = 3
	})

	w := f.post(t, "/api/students/generate-similar-problems", gin.H{"studentId": uuid.New().String()})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool    `json:"success"`
		Remaining float64 `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, float64(2), resp.Remaining)

	assert.Equal(t, 1, f.record(t).SimilarProblem.DailyUsed)
	assert.Equal(t, 1, f.generator.calls)
}

func TestGenerateSimilarProblemsDeniedAtLimit(t *testing.T) {
	f := newFeatureFixture(t, nil, func(rec *models.DirectorLimitation) {
		rec.SimilarProblem.Enabled = true
		rec.SimilarProblem.DailyLimit = 3
		rec.SimilarProblem.DailyUsed = 3
	})

	w := f.post(t, "/api/students/generate-similar-problems", gin.H{"studentId": uuid.New().String()})

	require.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "3회 제한")

	// The AI backend was never called.
	assert.Equal(t, 0, f.generator.calls)
}

func TestGenerateSimilarProblemsDisabled(t *testing.T) {
	f := newFeatureFixture(t, nil, func(rec *models.DirectorLimitation) {
		rec.SimilarProblem.Enabled = false
	})

	w := f.post(t, "/api/students/generate-similar-problems", gin.H{"studentId": uuid.New().String()})

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "비활성화")
	assert.Equal(t, 0, f.generator.calls)
}

func TestUnresolvedTenantProceedsUngated(t *testing.T) {
	// A student with no academy or no director has no quota policy:
	// the request must not 403.
	f := newFeatureFixture(t, service.ErrTenantNotFound, nil)

	w := f.post(t, "/api/students/competency", gin.H{"studentId": uuid.New().String()})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	_, hasRemaining := resp["remaining"]
	assert.False(t, hasRemaining)
}

func TestNoRecordProceedsUnlimited(t *testing.T) {
	// Tenant resolves but has no limitation record: fail-open.
	f := newFeatureFixture(t, nil, nil)

	w := f.post(t, "/api/students/analysis", gin.H{"studentId": uuid.New().String()})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.generator.calls)
}

func TestGenerationFailureReleasesQuota(t *testing.T) {
	f := newFeatureFixture(t, nil, func(rec *models.DirectorLimitation) {
		rec.SimilarProblem.Enabled = true
		rec.SimilarProblem.DailyLimit = 1
	})
	f.generator.err = errors.New("upstream timeout")

	w := f.post(t, "/api/students/generate-similar-problems", gin.H{"studentId": uuid.New().String()})

	require.Equal(t, http.StatusBadGateway, w.Code)

	// The failed call must not consume quota.
	assert.Equal(t, 0, f.record(t).SimilarProblem.DailyUsed)

	// And the next attempt still has its slot.
	f.generator.err = nil
	w = f.post(t, "/api/students/generate-similar-problems", gin.H{"studentId": uuid.New().String()})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHomeworkGradingIgnoresToggle(t *testing.T) {
	f := newFeatureFixture(t, nil, func(rec *models.DirectorLimitation) {
		rec.HomeworkGrading.Enabled = false
		rec.HomeworkGrading.DailyLimit = 2
	})

	body := gin.H{"studentId": uuid.New().String(), "submissionId": uuid.New().String()}

	w := f.post(t, "/api/homework/grade", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.post(t, "/api/homework/grade", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.post(t, "/api/homework/grade", body)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "2회 제한")
}

func TestExhaustionScenario(t *testing.T) {
	// Walk a limit of 3 down to denial.
	f := newFeatureFixture(t, nil, func(rec *models.DirectorLimitation) {
		rec.SimilarProblem.Enabled = true
		rec.SimilarProblem.DailyLimit = 3
	})

	for i := 0; i < 3; i++ {
		w := f.post(t, "/api/students/generate-similar-problems", gin.H{"studentId": uuid.New().String()})
		require.Equal(t, http.StatusOK, w.Code, fmt.Sprintf("call %d", i+1))
	}

	w := f.post(t, "/api/students/generate-similar-problems", gin.H{"studentId": uuid.New().String()})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 3, f.record(t).SimilarProblem.DailyUsed)
}

func TestMissingStudentIDRejected(t *testing.T) {
	f := newFeatureFixture(t, nil, nil)

	w := f.post(t, "/api/students/analysis", gin.H{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, f.generator.calls)
}
