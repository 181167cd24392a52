package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/services"
)

type PointsHandler struct {
	log *logger.Logger
	svc services.PointsService
}

func NewPointsHandler(baseLog *logger.Logger, svc services.PointsService) *PointsHandler {
	return &PointsHandler{log: baseLog.With("handler", "PointsHandler"), svc: svc}
}

type conversationActionRequest struct {
	UserID         uuid.UUID `json:"user_id" binding:"required"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

type likeActionRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	LikerID     uuid.UUID `json:"liker_id"`
	MessageID   uuid.UUID `json:"message_id"`
}

type reactionActionRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	ReactorID   uuid.UUID `json:"reactor_id"`
	MessageID   uuid.UUID `json:"message_id"`
	Emoji       string    `json:"emoji"`
}

// POST /api/points/message
func (h *PointsHandler) AwardMessageSent(c *gin.Context) {
	var req conversationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.AwardMessageSent(c.Request.Context(), req.UserID, req.ConversationID)
	h.respond(c, result, err)
}

// POST /api/points/attachment
func (h *PointsHandler) AwardAttachmentUpload(c *gin.Context) {
	var req conversationActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.AwardAttachmentUpload(c.Request.Context(), req.UserID, req.ConversationID)
	h.respond(c, result, err)
}

// POST /api/points/like
func (h *PointsHandler) AwardMessageLike(c *gin.Context) {
	var req likeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.AwardMessageLike(c.Request.Context(), req.RecipientID, req.LikerID, req.MessageID)
	h.respond(c, result, err)
}

// POST /api/points/reaction
func (h *PointsHandler) AwardEmojiReaction(c *gin.Context) {
	var req reactionActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.AwardEmojiReaction(c.Request.Context(), req.RecipientID, req.ReactorID, req.MessageID, req.Emoji)
	h.respond(c, result, err)
}

// GET /api/users/:id/points
func (h *PointsHandler) GetUserPoints(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	summary, err := h.svc.GetUserPoints(c.Request.Context(), userID)
	if err != nil {
		h.log.Warn("Point summary fetch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// A capped-out award is a normal 200 with success=false, not an error.
func (h *PointsHandler) respond(c *gin.Context, result *services.AwardResult, err error) {
	if err != nil {
		h.log.Warn("Point award failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, result)
}
