package app

import (
	"time"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/utils"
)

type Config struct {
	Port                string
	RedisAddr           string
	LeaderboardInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	intervalSeconds := utils.GetEnvAsInt("LEADERBOARD_REBUILD_INTERVAL_SECONDS", 900, log)
	return Config{
		Port:                port,
		RedisAddr:           redisAddr,
		LeaderboardInterval: time.Duration(intervalSeconds) * time.Second,
	}
}
