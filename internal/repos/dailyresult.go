package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/types"
)

type DailyResultRepo interface {
	Create(ctx context.Context, tx *gorm.DB, results []*types.DailyResult) ([]*types.DailyResult, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, resultID, userID uuid.UUID) (*types.DailyResult, error)
	GetByIntentionIDForUser(ctx context.Context, tx *gorm.DB, intentionID, userID uuid.UUID) (*types.DailyResult, error)
	GetByIntentionIDs(ctx context.Context, tx *gorm.DB, intentionIDs []uuid.UUID) ([]*types.DailyResult, error)
	ExistsForIntention(ctx context.Context, tx *gorm.DB, intentionID uuid.UUID) (bool, error)
	LatestUnresolvedBefore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, before time.Time) (*types.DailyResult, error)
	Update(ctx context.Context, tx *gorm.DB, result *types.DailyResult) error
}

type dailyResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyResultRepo(db *gorm.DB, baseLog *logger.Logger) DailyResultRepo {
	repoLog := baseLog.With("repo", "DailyResultRepo")
	return &dailyResultRepo{db: db, log: repoLog}
}

func (rr *dailyResultRepo) Create(ctx context.Context, tx *gorm.DB, results []*types.DailyResult) ([]*types.DailyResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(results) == 0 {
		return []*types.DailyResult{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (rr *dailyResultRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, resultID, userID uuid.UUID) (*types.DailyResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.DailyResult
	if err := transaction.WithContext(ctx).
		Joins("JOIN daily_intention ON daily_intention.id = daily_result.daily_intention_id").
		Where("daily_result.id = ? AND daily_intention.user_id = ?", resultID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (rr *dailyResultRepo) GetByIntentionIDForUser(ctx context.Context, tx *gorm.DB, intentionID, userID uuid.UUID) (*types.DailyResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.DailyResult
	if err := transaction.WithContext(ctx).
		Joins("JOIN daily_intention ON daily_intention.id = daily_result.daily_intention_id").
		Where("daily_result.daily_intention_id = ? AND daily_intention.user_id = ?", intentionID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (rr *dailyResultRepo) GetByIntentionIDs(ctx context.Context, tx *gorm.DB, intentionIDs []uuid.UUID) ([]*types.DailyResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.DailyResult
	if len(intentionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("daily_intention_id IN ?", intentionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *dailyResultRepo) ExistsForIntention(ctx context.Context, tx *gorm.DB, intentionID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.DailyResult{}).
		Where("daily_intention_id = ?", intentionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestUnresolvedBefore finds the newest failed result from a prior day
// whose recovery quest is still unanswered. This is the row that gates new
// intentions.
func (rr *dailyResultRepo) LatestUnresolvedBefore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, before time.Time) (*types.DailyResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.DailyResult
	if err := transaction.WithContext(ctx).
		Joins("JOIN daily_intention ON daily_intention.id = daily_result.daily_intention_id").
		Where("daily_intention.user_id = ?", userID).
		Where("daily_intention.created_at < ?", before).
		Where("daily_result.succeeded = ?", false).
		Where("daily_result.recovery_quest IS NOT NULL").
		Where("daily_result.recovery_quest_completed = ?", false).
		Order("daily_intention.created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (rr *dailyResultRepo) Update(ctx context.Context, tx *gorm.DB, result *types.DailyResult) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if result == nil || result.ID == uuid.Nil {
		return gorm.ErrRecordNotFound
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(result).Error
}
