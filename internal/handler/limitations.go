package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/models"
	"github.com/hakwonplus/academy-api/internal/service"
)

// LimitationHandler is the admin surface over director quota policies.
type LimitationHandler struct {
	service *service.LimitationService
}

func NewLimitationHandler(service *service.LimitationService) *LimitationHandler {
	return &LimitationHandler{service: service}
}

// GET /api/admin/director-limitations?directorId=...&academyId=...
func (h *LimitationHandler) Get(c *gin.Context) {
	directorIDParam := c.Query("directorId")
	academyIDParam := c.Query("academyId")

	if directorIDParam == "" && academyIDParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "directorId or academyId required"})
		return
	}

	ctx := c.Request.Context()

	if directorIDParam != "" {
		directorID, err := uuid.Parse(directorIDParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid directorId"})
			return
		}

		academyID, _ := uuid.Parse(academyIDParam)
		rec, err := h.service.Get(ctx, directorID, academyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get director limitations"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "limitation": rec})
		return
	}

	academyID, err := uuid.Parse(academyIDParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid academyId"})
		return
	}

	rec, err := h.service.GetByAcademy(ctx, academyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get director limitations"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no limitation record for academy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "limitation": rec})
}

// POST /api/admin/director-limitations
func (h *LimitationHandler) Update(c *gin.Context) {
	var req models.DirectorLimitation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	rec, err := h.service.Update(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "limitation": rec})
}

// GET /api/admin/director-limitations/:directorId/usage?days=30
func (h *LimitationHandler) Usage(c *gin.Context) {
	directorID, err := uuid.Parse(c.Param("directorId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid directorId"})
		return
	}

	days := 30
	if d := c.Query("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 {
			days = parsed
		}
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	counts, err := h.service.Usage(c.Request.Context(), directorID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get usage"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "since": since, "usage": counts})
}
