package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/types"
)

type CharacterStatsRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stats []*types.CharacterStats) ([]*types.CharacterStats, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.CharacterStats, error)
	Update(ctx context.Context, tx *gorm.DB, stats *types.CharacterStats) error
}

type characterStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCharacterStatsRepo(db *gorm.DB, baseLog *logger.Logger) CharacterStatsRepo {
	repoLog := baseLog.With("repo", "CharacterStatsRepo")
	return &characterStatsRepo{db: db, log: repoLog}
}

func (cr *characterStatsRepo) Create(ctx context.Context, tx *gorm.DB, stats []*types.CharacterStats) ([]*types.CharacterStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(stats) == 0 {
		return []*types.CharacterStats{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (cr *characterStatsRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.CharacterStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.CharacterStats
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *characterStatsRepo) Update(ctx context.Context, tx *gorm.DB, stats *types.CharacterStats) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if stats == nil || stats.UserID == uuid.Nil {
		return gorm.ErrRecordNotFound
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(stats).Error
}
