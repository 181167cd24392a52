package app

import (
	"github.com/studyhall/studyhall-backend/internal/handlers"
	"github.com/studyhall/studyhall-backend/internal/logger"
)

type Handlers struct {
	Progress    *handlers.ProgressHandler
	Points      *handlers.PointsHandler
	Leaderboard *handlers.LeaderboardHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Progress:    handlers.NewProgressHandler(log, services.Progress),
		Points:      handlers.NewPointsHandler(log, services.Points),
		Leaderboard: handlers.NewLeaderboardHandler(log, services.Leaderboard),
	}
}
