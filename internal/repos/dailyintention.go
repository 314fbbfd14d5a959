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

type DailyIntentionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, intentions []*types.DailyIntention) ([]*types.DailyIntention, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, intentionID, userID uuid.UUID) (*types.DailyIntention, error)
	GetForUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) (*types.DailyIntention, error)
	ListOpenBefore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, before time.Time) ([]*types.DailyIntention, error)
	Update(ctx context.Context, tx *gorm.DB, intention *types.DailyIntention) error
}

type dailyIntentionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyIntentionRepo(db *gorm.DB, baseLog *logger.Logger) DailyIntentionRepo {
	repoLog := baseLog.With("repo", "DailyIntentionRepo")
	return &dailyIntentionRepo{db: db, log: repoLog}
}

func (ir *dailyIntentionRepo) Create(ctx context.Context, tx *gorm.DB, intentions []*types.DailyIntention) ([]*types.DailyIntention, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(intentions) == 0 {
		return []*types.DailyIntention{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&intentions).Error; err != nil {
		return nil, err
	}

	return intentions, nil
}

// GetByIDForUser resolves an intention only when it belongs to the given
// user. A miss returns (nil, nil) so callers can hide the row's existence.
func (ir *dailyIntentionRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, intentionID, userID uuid.UUID) (*types.DailyIntention, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.DailyIntention
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", intentionID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// GetForUserBetween returns the user's intention created inside [start, end),
// the newest one if several exist.
func (ir *dailyIntentionRepo) GetForUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end time.Time) (*types.DailyIntention, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.DailyIntention
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// ListOpenBefore returns intentions still pending or in progress whose day
// started before the given cutoff, oldest first.
func (ir *dailyIntentionRepo) ListOpenBefore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, before time.Time) ([]*types.DailyIntention, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.DailyIntention
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND created_at < ? AND status IN ?", userID, before,
			[]string{types.IntentionStatusPending, types.IntentionStatusInProgress}).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *dailyIntentionRepo) Update(ctx context.Context, tx *gorm.DB, intention *types.DailyIntention) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if intention == nil || intention.ID == uuid.Nil {
		return gorm.ErrRecordNotFound
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(intention).Error
}
