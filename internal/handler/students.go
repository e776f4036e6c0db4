package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/service"
)

type StudentHandler struct {
	service *service.StudentService
}

func NewStudentHandler(service *service.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req struct {
		AcademyID   uuid.UUID `json:"academyId" binding:"required"`
		Email       string    `json:"email" binding:"required,email"`
		Password    string    `json:"password" binding:"required,min=8"`
		Name        string    `json:"name" binding:"required"`
		Grade       string    `json:"grade"`
		Phone       string    `json:"phone"`
		ParentPhone string    `json:"parentPhone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	student, err := h.service.Create(c.Request.Context(), req.AcademyID, req.Email, req.Password, req.Name, req.Grade, req.Phone, req.ParentPhone)
	if err != nil {
		var limitErr *service.ErrStudentLimitReached
		if errors.As(err, &limitErr) {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": limitErr.Error()})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "student": student})
}

// GET /api/students?academyId=...
func (h *StudentHandler) List(c *gin.Context) {
	academyID, err := uuid.Parse(c.Query("academyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "academyId required"})
		return
	}

	students, err := h.service.List(c.Request.Context(), academyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list students"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "students": students})
}
