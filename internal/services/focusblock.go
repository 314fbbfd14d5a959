package services

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/normalization"
	"github.com/xecuteapp/backend/internal/platform/apierr"
	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
	"github.com/xecuteapp/backend/internal/rules"
	"github.com/xecuteapp/backend/internal/types"
)

type CreateFocusBlockInput struct {
	BlockIntention  string `json:"block_intention"`
	DurationMinutes *int   `json:"duration_minutes"`
}

// UpdateFocusBlockInput carries a partial block update. Nil fields are left
// alone.
type UpdateFocusBlockInput struct {
	Status            *string `json:"status"`
	PreBlockVideoURL  *string `json:"pre_block_video_url"`
	PostBlockVideoURL *string `json:"post_block_video_url"`
}

// FocusBlockResult reports the updated block plus any XP the update paid out.
type FocusBlockResult struct {
	Block     *types.FocusBlock `json:"block"`
	XPAwarded int               `json:"xp_awarded"`
}

type FocusBlockService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateFocusBlockInput) (*types.FocusBlock, error)
	Start(ctx context.Context, userID, blockID uuid.UUID) (*types.FocusBlock, error)
	Update(ctx context.Context, userID, blockID uuid.UUID, input UpdateFocusBlockInput) (*FocusBlockResult, error)
}

type focusBlockService struct {
	db               *gorm.DB
	log              *logger.Logger
	gameRules        rules.Rules
	userRepo         repos.UserRepo
	intentionRepo    repos.DailyIntentionRepo
	focusBlockRepo   repos.FocusBlockRepo
	statsService     StatsService
	intentionService IntentionService
}

func NewFocusBlockService(
	db *gorm.DB,
	log *logger.Logger,
	gameRules rules.Rules,
	userRepo repos.UserRepo,
	intentionRepo repos.DailyIntentionRepo,
	focusBlockRepo repos.FocusBlockRepo,
	statsService StatsService,
	intentionService IntentionService,
) FocusBlockService {
	serviceLog := log.With("service", "FocusBlockService")
	return &focusBlockService{
		db:               db,
		log:              serviceLog,
		gameRules:        gameRules,
		userRepo:         userRepo,
		intentionRepo:    intentionRepo,
		focusBlockRepo:   focusBlockRepo,
		statsService:     statsService,
		intentionService: intentionService,
	}
}

// Create plans a focus block under today's intention. Only one block may be
// pending or in progress at a time.
func (fs *focusBlockService) Create(ctx context.Context, userID uuid.UUID, input CreateFocusBlockInput) (*types.FocusBlock, error) {
	text := normalization.TrimText(input.BlockIntention)
	if text == "" {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed", "A block intention is required")
	}
	if utf8.RuneCountInString(text) > fs.gameRules.Limits.IntentionTextMax {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The block intention must be at most %d characters", fs.gameRules.Limits.IntentionTextMax)
	}

	now := time.Now().UTC()
	dayStart, dayEnd := utcDayBounds(now)

	var block *types.FocusBlock
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fs.intentionService.RolloverExpired(ctx, tx, userID, now); err != nil {
			return err
		}

		intention, err := fs.intentionRepo.GetForUserBetween(ctx, tx, userID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("load today's intention: %w", err)
		}
		if intention == nil {
			return apierr.Errorf(http.StatusNotFound, "no_intention_today",
				"Set today's Daily Intention before planning focus blocks")
		}
		if !intention.Open() {
			return apierr.Errorf(http.StatusBadRequest, "already_resolved",
				"Today's Daily Intention is already resolved")
		}

		active, err := fs.focusBlockRepo.ActiveCountForIntention(ctx, tx, intention.ID)
		if err != nil {
			return fmt.Errorf("count active blocks: %w", err)
		}
		if active > 0 {
			return apierr.Errorf(http.StatusConflict, "active_block_exists",
				"Finish the current focus block before planning another")
		}

		minutes := 0
		if input.DurationMinutes != nil {
			minutes = *input.DurationMinutes
			if minutes < 1 || minutes > fs.gameRules.Limits.FocusBlockMinutesMax {
				return apierr.Errorf(http.StatusBadRequest, "validation_failed",
					"The duration must be between 1 and %d minutes", fs.gameRules.Limits.FocusBlockMinutesMax)
			}
		} else {
			users, err := fs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}
			if len(users) == 0 {
				return apierr.Errorf(http.StatusNotFound, "user_not_found", "User not found")
			}
			minutes = users[0].DefaultFocusBlockMinutes
		}

		block = &types.FocusBlock{
			DailyIntentionID: intention.ID,
			BlockIntention:   text,
			DurationMinutes:  minutes,
			Status:           types.FocusBlockStatusPending,
		}
		if _, err := fs.focusBlockRepo.Create(ctx, tx, []*types.FocusBlock{block}); err != nil {
			return fmt.Errorf("create focus block: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fs.log.Info("Focus block created", "user_id", userID, "block_id", block.ID, "minutes", block.DurationMinutes)
	return block, nil
}

// Start stamps the start time on a pending block and marks the parent
// intention in progress.
func (fs *focusBlockService) Start(ctx context.Context, userID, blockID uuid.UUID) (*types.FocusBlock, error) {
	now := time.Now().UTC()

	var block *types.FocusBlock
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loaded, err := fs.loadBlock(ctx, tx, blockID, userID)
		if err != nil {
			return err
		}
		if !sameUTCDay(loaded.CreatedAt, now) {
			return apierr.Errorf(http.StatusForbidden, "block_locked",
				"Focus blocks can only be worked on the day they were planned")
		}
		switch loaded.Status {
		case types.FocusBlockStatusInProgress:
			return apierr.Errorf(http.StatusConflict, "block_already_started", "This focus block is already running")
		case types.FocusBlockStatusCompleted, types.FocusBlockStatusFailed:
			return apierr.Errorf(http.StatusConflict, "block_completed", "This focus block is already resolved")
		}

		if err := fs.beginBlock(ctx, tx, loaded, userID, now); err != nil {
			return err
		}
		block = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	fs.log.Info("Focus block started", "user_id", userID, "block_id", block.ID)
	return block, nil
}

// Update applies video URLs and status transitions. Completing a block pays
// out XP pro-rated by its duration. Blocks lock at the end of their UTC day.
func (fs *focusBlockService) Update(ctx context.Context, userID, blockID uuid.UUID, input UpdateFocusBlockInput) (*FocusBlockResult, error) {
	now := time.Now().UTC()

	var result *FocusBlockResult
	err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		block, err := fs.loadBlock(ctx, tx, blockID, userID)
		if err != nil {
			return err
		}
		if !sameUTCDay(block.CreatedAt, now) {
			return apierr.Errorf(http.StatusForbidden, "block_locked",
				"Focus blocks can only be worked on the day they were planned")
		}

		if input.PreBlockVideoURL != nil {
			block.PreBlockVideoURL = normalization.TrimTextPtr(input.PreBlockVideoURL)
		}
		if input.PostBlockVideoURL != nil {
			block.PostBlockVideoURL = normalization.TrimTextPtr(input.PostBlockVideoURL)
		}

		awarded := 0
		if input.Status != nil {
			awarded, err = fs.applyStatus(ctx, tx, block, userID, *input.Status, now)
			if err != nil {
				return err
			}
		}

		if err := fs.focusBlockRepo.Update(ctx, tx, block); err != nil {
			return fmt.Errorf("update focus block: %w", err)
		}
		result = &FocusBlockResult{Block: block, XPAwarded: awarded}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.XPAwarded > 0 {
		fs.log.Info("Focus block completed", "user_id", userID, "block_id", blockID, "xp", result.XPAwarded)
	}
	return result, nil
}

func (fs *focusBlockService) applyStatus(ctx context.Context, tx *gorm.DB, block *types.FocusBlock, userID uuid.UUID, target string, now time.Time) (int, error) {
	switch target {
	case types.FocusBlockStatusPending, types.FocusBlockStatusInProgress,
		types.FocusBlockStatusCompleted, types.FocusBlockStatusFailed:
	default:
		return 0, apierr.Errorf(http.StatusBadRequest, "invalid_status",
			"Status must be one of pending, in_progress, completed, failed")
	}

	current := block.Status
	if current == target {
		return 0, nil
	}
	if current == types.FocusBlockStatusCompleted {
		return 0, apierr.Errorf(http.StatusConflict, "block_completed", "This focus block is already resolved")
	}
	if current == types.FocusBlockStatusFailed {
		return 0, apierr.Errorf(http.StatusConflict, "invalid_transition", "A failed focus block cannot be reopened")
	}

	switch target {
	case types.FocusBlockStatusPending:
		return 0, apierr.Errorf(http.StatusConflict, "invalid_transition", "A focus block cannot move back to pending")
	case types.FocusBlockStatusInProgress:
		if err := fs.beginBlock(ctx, tx, block, userID, now); err != nil {
			return 0, err
		}
		return 0, nil
	case types.FocusBlockStatusFailed:
		block.Status = types.FocusBlockStatusFailed
		return 0, nil
	case types.FocusBlockStatusCompleted:
		block.Status = types.FocusBlockStatusCompleted
		xp := fs.gameRules.FocusBlockXPFor(block.DurationMinutes)
		if xp > 0 {
			if _, err := fs.statsService.Grant(ctx, tx, userID, Gain{XP: xp}); err != nil {
				return 0, err
			}
		}
		return xp, nil
	}
	return 0, nil
}

// beginBlock moves a pending block into progress and bumps the parent
// intention along with it.
func (fs *focusBlockService) beginBlock(ctx context.Context, tx *gorm.DB, block *types.FocusBlock, userID uuid.UUID, now time.Time) error {
	started := now
	block.Status = types.FocusBlockStatusInProgress
	block.StartedAt = &started
	if err := fs.focusBlockRepo.Update(ctx, tx, block); err != nil {
		return fmt.Errorf("start focus block: %w", err)
	}

	intention, err := fs.intentionRepo.GetByIDForUser(ctx, tx, block.DailyIntentionID, userID)
	if err != nil {
		return fmt.Errorf("load parent intention: %w", err)
	}
	if intention != nil && intention.Status == types.IntentionStatusPending {
		intention.Status = types.IntentionStatusInProgress
		if err := fs.intentionRepo.Update(ctx, tx, intention); err != nil {
			return fmt.Errorf("update parent intention: %w", err)
		}
	}
	return nil
}

func (fs *focusBlockService) loadBlock(ctx context.Context, tx *gorm.DB, blockID, userID uuid.UUID) (*types.FocusBlock, error) {
	block, err := fs.focusBlockRepo.GetByIDForUser(ctx, tx, blockID, userID)
	if err != nil {
		return nil, fmt.Errorf("load focus block: %w", err)
	}
	if block == nil {
		return nil, apierr.Errorf(http.StatusNotFound, "block_not_found", "Focus block not found")
	}
	return block, nil
}
