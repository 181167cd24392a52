package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyhall/studyhall-backend/internal/logger"
	"github.com/studyhall/studyhall-backend/internal/types"
)

// PointEventRepo is append-only. There are deliberately no update or delete
// operations; the event log is the audit trail.
type PointEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.PointEvent) error
	ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.PointEvent, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PointEvent, error)
}

type pointEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPointEventRepo(db *gorm.DB, baseLog *logger.Logger) PointEventRepo {
	repoLog := baseLog.With("repo", "PointEventRepo")
	return &pointEventRepo{db: db, log: repoLog}
}

func (r *pointEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.PointEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if event == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return err
	}
	return nil
}

func (r *pointEventRepo) ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.PointEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PointEvent
	if err := transaction.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pointEventRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PointEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PointEvent
	if userID == uuid.Nil {
		return results, nil
	}

	q := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
