package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/types"
)

type ModuleProgressRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error
	GetByUserAndModuleForUpdate(ctx context.Context, tx *gorm.DB, userID, moduleID uuid.UUID) (*types.ModuleProgress, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ModuleProgress, error)
	Save(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error
}

type moduleProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleProgressRepo(db *gorm.DB, baseLog *logger.Logger) ModuleProgressRepo {
	repoLog := baseLog.With("repo", "ModuleProgressRepo")
	return &moduleProgressRepo{db: db, log: repoLog}
}

func (r *moduleProgressRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *moduleProgressRepo) GetByUserAndModuleForUpdate(ctx context.Context, tx *gorm.DB, userID, moduleID uuid.UUID) (*types.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ModuleProgress
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *moduleProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ModuleProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ModuleProgress
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *moduleProgressRepo) Save(ctx context.Context, tx *gorm.DB, row *types.ModuleProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	return nil
}
