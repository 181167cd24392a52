package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/studyhall/studyhall-backend/internal/handlers"
)

type RouterConfig struct {
	ProgressHandler    *handlers.ProgressHandler
	PointsHandler      *handlers.PointsHandler
	LeaderboardHandler *handlers.LeaderboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/progress/view", cfg.ProgressHandler.RegisterView)
		api.GET("/users/:id/progress", cfg.ProgressHandler.GetUserProgress)
		api.GET("/users/:id/points", cfg.PointsHandler.GetUserPoints)

		api.POST("/points/message", cfg.PointsHandler.AwardMessageSent)
		api.POST("/points/attachment", cfg.PointsHandler.AwardAttachmentUpload)
		api.POST("/points/like", cfg.PointsHandler.AwardMessageLike)
		api.POST("/points/reaction", cfg.PointsHandler.AwardEmojiReaction)

		api.GET("/leaderboard/:scope", cfg.LeaderboardHandler.Get)
		api.POST("/admin/leaderboard/recompute", cfg.LeaderboardHandler.Recompute)
	}

	return router
}
