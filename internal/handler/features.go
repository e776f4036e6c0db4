package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/ai"
	"github.com/hakwonplus/academy-api/internal/quota"
	"github.com/hakwonplus/academy-api/internal/service"
)

// TenantResolver maps a student to the director whose quota applies.
type TenantResolver interface {
	Resolve(ctx context.Context, studentID uuid.UUID) (service.Tenant, error)
}

// FeatureHandler serves the four quota-gated AI endpoints. Each request
// resolves the owning director, reserves one use atomically, performs
// the generation and gives the use back if the generation fails.
type FeatureHandler struct {
	engine    *quota.Engine
	tenants   TenantResolver
	generator ai.Generator
	usage     *service.UsageLogger
}

func NewFeatureHandler(engine *quota.Engine, tenants TenantResolver, generator ai.Generator, usage *service.UsageLogger) *FeatureHandler {
	return &FeatureHandler{
		engine:    engine,
		tenants:   tenants,
		generator: generator,
		usage:     usage,
	}
}

type admission struct {
	tenant   service.Tenant
	gated    bool
	decision quota.Decision
}

// admit resolves the student's director and reserves one use of the
// feature. Writes the response and returns ok=false on denial. An
// unresolved tenant means no quota policy applies: the request
// proceeds ungated rather than being rejected.
func (h *FeatureHandler) admit(c *gin.Context, studentID uuid.UUID, f quota.Feature) (admission, bool) {
	ctx := c.Request.Context()

	tenant, err := h.tenants.Resolve(ctx, studentID)
	if err != nil {
		if !errors.Is(err, service.ErrTenantNotFound) {
			log.Printf("Failed to resolve tenant for student %s, proceeding ungated: %v", studentID, err)
		}
		return admission{}, true
	}

	decision, err := h.engine.Reserve(ctx, tenant.DirectorID, f)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요.",
		})
		return admission{}, false
	}

	if !decision.Allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   decision.Reason,
		})
		return admission{}, false
	}

	return admission{tenant: tenant, gated: true, decision: decision}, true
}

func (h *FeatureHandler) fail(c *gin.Context, adm admission, f quota.Feature, err error) {
	// The generation never happened, so the reserved use goes back.
	if adm.gated {
		h.engine.Release(c.Request.Context(), adm.tenant.DirectorID, f)
	}

	requestID := c.GetString("request_id")
	log.Printf("[%s] %s generation failed: %v", requestID, f, err)

	c.JSON(http.StatusBadGateway, gin.H{
		"success": false,
		"error":   "요청 처리에 실패했습니다. 잠시 후 다시 시도해주세요.",
	})
}

func (h *FeatureHandler) succeed(c *gin.Context, adm admission, f quota.Feature, studentID *uuid.UUID, result *ai.Result) {
	if adm.gated {
		h.usage.Log(adm.tenant.DirectorID, adm.tenant.AcademyID, studentID, string(f))
	}

	resp := gin.H{
		"success": true,
		"result":  result,
	}
	if adm.gated {
		resp["remaining"] = adm.decision.Remaining
	}

	c.JSON(http.StatusOK, resp)
}

// POST /api/students/generate-similar-problems
func (h *FeatureHandler) GenerateSimilarProblems(c *gin.Context) {
	var req struct {
		StudentID uuid.UUID `json:"studentId" binding:"required"`
		Concept   string    `json:"concept"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "studentId is required"})
		return
	}

	adm, ok := h.admit(c, req.StudentID, quota.FeatureSimilarProblem)
	if !ok {
		return
	}

	result, err := h.generator.GenerateSimilarProblems(c.Request.Context(), ai.SimilarProblemRequest{
		StudentID: req.StudentID,
		Concept:   req.Concept,
	})
	if err != nil {
		h.fail(c, adm, quota.FeatureSimilarProblem, err)
		return
	}

	h.succeed(c, adm, quota.FeatureSimilarProblem, &req.StudentID, result)
}

// POST /api/students/analysis
func (h *FeatureHandler) AnalyzeWeakConcepts(c *gin.Context) {
	var req struct {
		StudentID uuid.UUID `json:"studentId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "studentId is required"})
		return
	}

	adm, ok := h.admit(c, req.StudentID, quota.FeatureWeakConcept)
	if !ok {
		return
	}

	result, err := h.generator.AnalyzeWeakConcepts(c.Request.Context(), ai.AnalysisRequest{StudentID: req.StudentID})
	if err != nil {
		h.fail(c, adm, quota.FeatureWeakConcept, err)
		return
	}

	h.succeed(c, adm, quota.FeatureWeakConcept, &req.StudentID, result)
}

// POST /api/students/competency
func (h *FeatureHandler) AnalyzeCompetency(c *gin.Context) {
	var req struct {
		StudentID uuid.UUID `json:"studentId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "studentId is required"})
		return
	}

	adm, ok := h.admit(c, req.StudentID, quota.FeatureCompetency)
	if !ok {
		return
	}

	result, err := h.generator.AnalyzeCompetency(c.Request.Context(), ai.AnalysisRequest{StudentID: req.StudentID})
	if err != nil {
		h.fail(c, adm, quota.FeatureCompetency, err)
		return
	}

	h.succeed(c, adm, quota.FeatureCompetency, &req.StudentID, result)
}

// POST /api/homework/grade
func (h *FeatureHandler) GradeHomework(c *gin.Context) {
	var req struct {
		StudentID    uuid.UUID `json:"studentId" binding:"required"`
		SubmissionID uuid.UUID `json:"submissionId" binding:"required"`
		ImageURL     string    `json:"imageUrl"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "studentId and submissionId are required"})
		return
	}

	adm, ok := h.admit(c, req.StudentID, quota.FeatureHomeworkGrading)
	if !ok {
		return
	}

	result, err := h.generator.GradeHomework(c.Request.Context(), ai.GradingRequest{
		StudentID:    req.StudentID,
		SubmissionID: req.SubmissionID,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		h.fail(c, adm, quota.FeatureHomeworkGrading, err)
		return
	}

	h.succeed(c, adm, quota.FeatureHomeworkGrading, &req.StudentID, result)
}
