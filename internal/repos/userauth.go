package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/types"
)

type UserAuthRepo interface {
	Create(ctx context.Context, tx *gorm.DB, auths []*types.UserAuth) ([]*types.UserAuth, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserAuth, error)
	StampLastLogin(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time) error
}

type userAuthRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAuthRepo(db *gorm.DB, baseLog *logger.Logger) UserAuthRepo {
	repoLog := baseLog.With("repo", "UserAuthRepo")
	return &userAuthRepo{db: db, log: repoLog}
}

func (ar *userAuthRepo) Create(ctx context.Context, tx *gorm.DB, auths []*types.UserAuth) ([]*types.UserAuth, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(auths) == 0 {
		return []*types.UserAuth{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&auths).Error; err != nil {
		return nil, err
	}

	return auths, nil
}

func (ar *userAuthRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserAuth, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.UserAuth
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

func (ar *userAuthRepo) StampLastLogin(ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	return transaction.WithContext(ctx).
		Model(&types.UserAuth{}).
		Where("user_id = ?", userID).
		Update("last_login", at).Error
}
