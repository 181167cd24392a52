package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/repos"
	"github.com/studyhall/studyhall-backend/internal/txn"
	"github.com/studyhall/studyhall-backend/internal/types"
)

// ProgressService records lesson views and keeps the module and course
// roll-ups consistent with them. RegisterView is idempotent: a lesson counts
// toward progress exactly once no matter how often it is reopened.
type ProgressService interface {
	RegisterView(ctx context.Context, userID, courseID, moduleID, lessonID uuid.UUID, lessonTitle string) error
	GetUserProgress(ctx context.Context, userID uuid.UUID) (*UserProgress, error)
}

type UserProgress struct {
	User    *types.User             `json:"user"`
	Modules []*types.ModuleProgress `json:"modules"`
}

type progressService struct {
	db             *gorm.DB
	log            *logger.Logger
	runner         txn.Runner
	userRepo       repos.UserRepo
	lessonRepo     repos.LessonRepo
	lessonProgRepo repos.LessonProgressRepo
	moduleProgRepo repos.ModuleProgressRepo
	now            func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	runner txn.Runner,
	userRepo repos.UserRepo,
	lessonRepo repos.LessonRepo,
	lessonProgRepo repos.LessonProgressRepo,
	moduleProgRepo repos.ModuleProgressRepo,
) ProgressService {
	return &progressService{
		db:             db,
		log:            baseLog.With("service", "ProgressService"),
		runner:         runner,
		userRepo:       userRepo,
		lessonRepo:     lessonRepo,
		lessonProgRepo: lessonProgRepo,
		moduleProgRepo: moduleProgRepo,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *progressService) RegisterView(ctx context.Context, userID, courseID, moduleID, lessonID uuid.UUID, lessonTitle string) error {
	if userID == uuid.Nil || lessonID == uuid.Nil {
		return fmt.Errorf("user id and lesson id are required")
	}

	return s.runner.InTx(ctx, func(tx *gorm.DB) error {
		now := s.now()

		lp, err := s.lessonProgRepo.GetByUserAndLessonForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			return fmt.Errorf("load lesson progress: %w", err)
		}
		if lp != nil && lp.Viewed {
			// Duplicate view: only the activity timestamp moves.
			return s.userRepo.TouchLastActive(ctx, tx, userID, now)
		}

		if lp == nil {
			lp = &types.LessonProgress{
				ID:       uuid.New(),
				UserID:   userID,
				LessonID: lessonID,
				ModuleID: moduleID,
			}
			lp.Viewed = true
			lp.ViewedAt = &now
			created, err := s.lessonProgRepo.CreateIfAbsent(ctx, tx, lp)
			if err != nil {
				return fmt.Errorf("create lesson progress: %w", err)
			}
			if !created {
				// A concurrent call inserted this row after our read; that
				// call owns the counter bump.
				return s.userRepo.TouchLastActive(ctx, tx, userID, now)
			}
		} else {
			lp.Viewed = true
			lp.ViewedAt = &now
			if err := s.lessonProgRepo.Save(ctx, tx, lp); err != nil {
				return fmt.Errorf("mark lesson viewed: %w", err)
			}
		}

		if err := s.bumpModuleProgress(ctx, tx, userID, moduleID); err != nil {
			return err
		}
		if err := s.bumpUserProgress(ctx, tx, userID, courseID, moduleID, lessonID, lessonTitle, now); err != nil {
			return err
		}
		return nil
	})
}

func (s *progressService) bumpModuleProgress(ctx context.Context, tx *gorm.DB, userID, moduleID uuid.UUID) error {
	mp, err := s.moduleProgRepo.GetByUserAndModuleForUpdate(ctx, tx, userID, moduleID)
	if err != nil {
		return fmt.Errorf("load module progress: %w", err)
	}
	if mp == nil {
		// An unknown module counts zero lessons; progress degrades to 0%
		// instead of failing the view.
		total, err := s.lessonRepo.CountByModuleID(ctx, tx, moduleID)
		if err != nil {
			return fmt.Errorf("count module lessons: %w", err)
		}
		mp = &types.ModuleProgress{
			ID:           uuid.New(),
			UserID:       userID,
			ModuleID:     moduleID,
			TotalLessons: total,
		}
		mp.CompletedLessons = 1
		mp.ProgressPercentage = percentage(mp.CompletedLessons, mp.TotalLessons)
		return s.moduleProgRepo.Create(ctx, tx, mp)
	}

	mp.CompletedLessons++
	mp.ProgressPercentage = percentage(mp.CompletedLessons, mp.TotalLessons)
	if err := s.moduleProgRepo.Save(ctx, tx, mp); err != nil {
		return fmt.Errorf("save module progress: %w", err)
	}
	return nil
}

func (s *progressService) bumpUserProgress(ctx context.Context, tx *gorm.DB, userID, courseID, moduleID, lessonID uuid.UUID, lessonTitle string, now time.Time) error {
	user, err := s.userRepo.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s does not exist", userID)
	}

	courseTotal, err := s.lessonRepo.CountByCourseID(ctx, tx, courseID)
	if err != nil {
		return fmt.Errorf("count course lessons: %w", err)
	}

	user.CompletedLessons++
	user.TotalLessons = courseTotal
	user.ProgressPercentage = percentage(user.CompletedLessons, user.TotalLessons)
	user.LastActive = &now

	ring := types.DecodeActivityRing(user.RecentActivity, types.RecentActivityCapacity)
	ring.Push(types.ActivityEntry{
		CourseID:    courseID,
		ModuleID:    moduleID,
		LessonID:    lessonID,
		LessonTitle: lessonTitle,
		ViewedAt:    now,
	})
	user.RecentActivity = ring.Encode()

	if err := s.userRepo.Save(ctx, tx, user); err != nil {
		return fmt.Errorf("save user progress: %w", err)
	}
	return nil
}

func (s *progressService) GetUserProgress(ctx context.Context, userID uuid.UUID) (*UserProgress, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 || users[0] == nil {
		return nil, fmt.Errorf("user does not exist")
	}

	modules, err := s.moduleProgRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch module progress: %w", err)
	}
	return &UserProgress{User: users[0], Modules: modules}, nil
}

// percentage is round(completed/total*100), 0 when total is 0.
func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
