package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/services"
	"github.com/studyhall/studyhall-backend/internal/types"
)

type LeaderboardHandler struct {
	log *logger.Logger
	svc services.LeaderboardService
}

func NewLeaderboardHandler(baseLog *logger.Logger, svc services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{log: baseLog.With("handler", "LeaderboardHandler"), svc: svc}
}

// GET /api/leaderboard/:scope
// :scope is "global" or "weekly"; country boards use scope "country" with
// ?country=US.
func (h *LeaderboardHandler) Get(c *gin.Context) {
	scope := c.Param("scope")
	switch scope {
	case types.LeaderboardScopeGlobal, types.LeaderboardScopeWeekly:
	case "country":
		country := c.Query("country")
		if country == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "country query parameter required"})
			return
		}
		scope = types.LeaderboardScopeCountryPrefix + country
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown leaderboard scope"})
		return
	}

	snap, err := h.svc.Get(c.Request.Context(), scope)
	if err != nil {
		h.log.Warn("Leaderboard read failed", "scope", scope, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scope":      snap.Scope,
		"entries":    services.DecodeEntries(snap.Entries),
		"updated_at": snap.UpdatedAt,
	})
}

// POST /api/admin/leaderboard/recompute
func (h *LeaderboardHandler) Recompute(c *gin.Context) {
	if err := h.svc.Recompute(c.Request.Context()); err != nil {
		h.log.Warn("Manual leaderboard recompute failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rebuilt"})
}
