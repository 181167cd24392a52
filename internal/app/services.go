package app

import (
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/cache"
	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/services"
	"github.com/studyhall/studyhall-backend/internal/txn"
)

type Services struct {
	Progress    services.ProgressService
	Points      services.PointsService
	Leaderboard services.LeaderboardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	runner := txn.NewGormRunner(db, log)

	// The cache is optional: without REDIS_ADDR, leaderboard reads go straight
	// to the store.
	var boardCache cache.LeaderboardCache
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisLeaderboardCache(log, cfg.RedisAddr)
		if err != nil {
			log.Warn("Leaderboard cache unavailable, falling back to store reads", "error", err)
		} else {
			boardCache = c
		}
	}

	return Services{
		Progress: services.NewProgressService(
			db, log, runner,
			reposet.User, reposet.Lesson, reposet.LessonProgress, reposet.ModuleProgress,
		),
		Points: services.NewPointsService(
			db, log, runner,
			reposet.User, reposet.PointEvent,
		),
		Leaderboard: services.NewLeaderboardService(
			db, log, runner,
			reposet.User, reposet.PointEvent, reposet.Leaderboard, boardCache,
		),
	}
}
