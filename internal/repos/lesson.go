package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/types"
)

// LessonRepo reads the authoritative lesson catalog. Lesson counts per module
// and course come from here, not from any denormalized field.
type LessonRepo interface {
	CountByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error)
	CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) CountByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if moduleID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *lessonRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if courseID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
