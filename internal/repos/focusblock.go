package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/types"
)

type FocusBlockRepo interface {
	Create(ctx context.Context, tx *gorm.DB, blocks []*types.FocusBlock) ([]*types.FocusBlock, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, blockID, userID uuid.UUID) (*types.FocusBlock, error)
	ListByIntentionIDs(ctx context.Context, tx *gorm.DB, intentionIDs []uuid.UUID) ([]*types.FocusBlock, error)
	ActiveCountForIntention(ctx context.Context, tx *gorm.DB, intentionID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, block *types.FocusBlock) error
}

type focusBlockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFocusBlockRepo(db *gorm.DB, baseLog *logger.Logger) FocusBlockRepo {
	repoLog := baseLog.With("repo", "FocusBlockRepo")
	return &focusBlockRepo{db: db, log: repoLog}
}

func (fr *focusBlockRepo) Create(ctx context.Context, tx *gorm.DB, blocks []*types.FocusBlock) ([]*types.FocusBlock, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if len(blocks) == 0 {
		return []*types.FocusBlock{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&blocks).Error; err != nil {
		return nil, err
	}

	return blocks, nil
}

// GetByIDForUser resolves a block through its intention's owner. A block the
// user does not own comes back as (nil, nil), indistinguishable from a
// missing row.
func (fr *focusBlockRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, blockID, userID uuid.UUID) (*types.FocusBlock, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.FocusBlock
	if err := transaction.WithContext(ctx).
		Joins("JOIN daily_intention ON daily_intention.id = focus_block.daily_intention_id").
		Where("focus_block.id = ? AND daily_intention.user_id = ?", blockID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (fr *focusBlockRepo) ListByIntentionIDs(ctx context.Context, tx *gorm.DB, intentionIDs []uuid.UUID) ([]*types.FocusBlock, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.FocusBlock
	if len(intentionIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("daily_intention_id IN ?", intentionIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *focusBlockRepo) ActiveCountForIntention(ctx context.Context, tx *gorm.DB, intentionID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.FocusBlock{}).
		Where("daily_intention_id = ? AND status IN ?", intentionID,
			[]string{types.FocusBlockStatusPending, types.FocusBlockStatusInProgress}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (fr *focusBlockRepo) Update(ctx context.Context, tx *gorm.DB, block *types.FocusBlock) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	if block == nil || block.ID == uuid.Nil {
		return gorm.ErrRecordNotFound
	}

	return transaction.WithContext(ctx).Omit(clause.Associations).Save(block).Error
}
