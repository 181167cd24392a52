package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/services"
)

type ProgressHandler struct {
	log *logger.Logger
	svc services.ProgressService
}

func NewProgressHandler(baseLog *logger.Logger, svc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: baseLog.With("handler", "ProgressHandler"), svc: svc}
}

type registerViewRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	CourseID    uuid.UUID `json:"course_id"`
	ModuleID    uuid.UUID `json:"module_id"`
	LessonID    uuid.UUID `json:"lesson_id" binding:"required"`
	LessonTitle string    `json:"lesson_title"`
}

// POST /api/progress/view
func (h *ProgressHandler) RegisterView(c *gin.Context) {
	var req registerViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.RegisterView(c.Request.Context(), req.UserID, req.CourseID, req.ModuleID, req.LessonID, req.LessonTitle); err != nil {
		h.log.Warn("RegisterView failed", "user_id", req.UserID, "lesson_id", req.LessonID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// GET /api/users/:id/progress
func (h *ProgressHandler) GetUserProgress(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	progress, err := h.svc.GetUserProgress(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, progress)
}
