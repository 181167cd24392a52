package app

import (
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	Lesson         repos.LessonRepo
	LessonProgress repos.LessonProgressRepo
	ModuleProgress repos.ModuleProgressRepo
	PointEvent     repos.PointEventRepo
	Leaderboard    repos.LeaderboardRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		ModuleProgress: repos.NewModuleProgressRepo(db, log),
		PointEvent:     repos.NewPointEventRepo(db, log),
		Leaderboard:    repos.NewLeaderboardRepo(db, log),
	}
}
