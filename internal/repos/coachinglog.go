package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/types"
)

type CoachingLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, logs []*types.CoachingLog) ([]*types.CoachingLog, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.CoachingLog, error)
}

type coachingLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoachingLogRepo(db *gorm.DB, baseLog *logger.Logger) CoachingLogRepo {
	repoLog := baseLog.With("repo", "CoachingLogRepo")
	return &coachingLogRepo{db: db, log: repoLog}
}

func (lr *coachingLogRepo) Create(ctx context.Context, tx *gorm.DB, logs []*types.CoachingLog) ([]*types.CoachingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if len(logs) == 0 {
		return []*types.CoachingLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

func (lr *coachingLogRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.CoachingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if limit <= 0 {
		limit = 50
	}

	var results []*types.CoachingLog
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
