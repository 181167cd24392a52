package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/types"
)

type LeaderboardRepo interface {
	// ReplaceAll drops every existing snapshot row and inserts the new set.
	// Scopes absent from the new set disappear entirely.
	ReplaceAll(ctx context.Context, tx *gorm.DB, snapshots []*types.LeaderboardSnapshot) error
	GetByScope(ctx context.Context, tx *gorm.DB, scope string) (*types.LeaderboardSnapshot, error)
}

type leaderboardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLeaderboardRepo(db *gorm.DB, baseLog *logger.Logger) LeaderboardRepo {
	repoLog := baseLog.With("repo", "LeaderboardRepo")
	return &leaderboardRepo{db: db, log: repoLog}
}

func (r *leaderboardRepo) ReplaceAll(ctx context.Context, tx *gorm.DB, snapshots []*types.LeaderboardSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("1 = 1").
		Delete(&types.LeaderboardSnapshot{}).Error; err != nil {
		return err
	}
	if len(snapshots) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).Create(&snapshots).Error; err != nil {
		return err
	}
	return nil
}

func (r *leaderboardRepo) GetByScope(ctx context.Context, tx *gorm.DB, scope string) (*types.LeaderboardSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.LeaderboardSnapshot
	err := transaction.WithContext(ctx).
		Where("scope = ?", scope).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
