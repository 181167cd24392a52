package app

import (
	"github.com/gin-gonic/gin"

	"github.com/studyhall/studyhall-backend/internal/server"
)

func wireRouter(handlers Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ProgressHandler:    handlers.Progress,
		PointsHandler:      handlers.Points,
		LeaderboardHandler: handlers.Leaderboard,
	})
}
