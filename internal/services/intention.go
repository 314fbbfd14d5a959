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

type CreateIntentionInput struct {
	IntentionText   string `json:"intention_text"`
	TargetQuantity  int    `json:"target_quantity"`
	FocusBlockCount int    `json:"focus_block_count"`
	IsRefined       bool   `json:"is_refined"`
}

// IntentionView is the intention with its focus blocks and result attached.
type IntentionView struct {
	ID                   uuid.UUID           `json:"id"`
	IntentionText        string              `json:"intention_text"`
	TargetQuantity       int                 `json:"target_quantity"`
	CompletedQuantity    int                 `json:"completed_quantity"`
	FocusBlockCount      int                 `json:"focus_block_count"`
	Status               string              `json:"status"`
	AIFeedback           *string             `json:"ai_feedback,omitempty"`
	CompletionPercentage float64             `json:"completion_percentage"`
	CreatedAt            time.Time           `json:"created_at"`
	FocusBlocks          []*types.FocusBlock `json:"focus_blocks"`
	DailyResult          *types.DailyResult  `json:"daily_result,omitempty"`
}

// IntentionDecision is the outcome of a create attempt. When the coach sends
// the intention back for refinement, nothing is persisted and Intention is nil.
type IntentionDecision struct {
	NeedsRefinement bool           `json:"needs_refinement"`
	AIFeedback      string         `json:"ai_feedback"`
	Intention       *IntentionView `json:"intention,omitempty"`
}

// DayCloseView is returned when an intention resolves, either by completion
// or by declared failure.
type DayCloseView struct {
	Intention  *IntentionView     `json:"intention"`
	Result     *types.DailyResult `json:"result"`
	AIFeedback string             `json:"ai_feedback"`
}

type IntentionService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateIntentionInput) (*IntentionDecision, error)
	GetToday(ctx context.Context, userID uuid.UUID) (*IntentionView, error)
	UpdateProgress(ctx context.Context, userID uuid.UUID, completed int) (*IntentionView, error)
	Complete(ctx context.Context, userID uuid.UUID) (*DayCloseView, error)
	Fail(ctx context.Context, userID uuid.UUID) (*DayCloseView, error)
	RolloverExpired(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) error
	BuildView(ctx context.Context, tx *gorm.DB, intention *types.DailyIntention) (*IntentionView, error)
}

type intentionService struct {
	db              *gorm.DB
	log             *logger.Logger
	gameRules       rules.Rules
	userRepo        repos.UserRepo
	intentionRepo   repos.DailyIntentionRepo
	focusBlockRepo  repos.FocusBlockRepo
	resultRepo      repos.DailyResultRepo
	coachingLogRepo repos.CoachingLogRepo
	coachService    CoachService
	statsService    StatsService
	streakService   StreakService
}

func NewIntentionService(
	db *gorm.DB,
	log *logger.Logger,
	gameRules rules.Rules,
	userRepo repos.UserRepo,
	intentionRepo repos.DailyIntentionRepo,
	focusBlockRepo repos.FocusBlockRepo,
	resultRepo repos.DailyResultRepo,
	coachingLogRepo repos.CoachingLogRepo,
	coachService CoachService,
	statsService StatsService,
	streakService StreakService,
) IntentionService {
	serviceLog := log.With("service", "IntentionService")
	return &intentionService{
		db:              db,
		log:             serviceLog,
		gameRules:       gameRules,
		userRepo:        userRepo,
		intentionRepo:   intentionRepo,
		focusBlockRepo:  focusBlockRepo,
		resultRepo:      resultRepo,
		coachingLogRepo: coachingLogRepo,
		coachService:    coachService,
		statsService:    statsService,
		streakService:   streakService,
	}
}

// Create sets today's intention. A vague intention comes back with coach
// feedback and needs_refinement=true instead of being persisted; the client
// resubmits with is_refined=true to override. A pending recovery quest from a
// failed earlier day blocks creation entirely.
func (is *intentionService) Create(ctx context.Context, userID uuid.UUID, input CreateIntentionInput) (*IntentionDecision, error) {
	text := normalization.TrimText(input.IntentionText)
	if text == "" {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed", "An intention text is required")
	}
	if utf8.RuneCountInString(text) > is.gameRules.Limits.IntentionTextMax {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The intention text must be at most %d characters", is.gameRules.Limits.IntentionTextMax)
	}
	if input.TargetQuantity < 1 || input.TargetQuantity > is.gameRules.Limits.TargetQuantityMax {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The target quantity must be between 1 and %d", is.gameRules.Limits.TargetQuantityMax)
	}
	if input.FocusBlockCount < 1 || input.FocusBlockCount > is.gameRules.Limits.FocusBlockCountMax {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The focus block count must be between 1 and %d", is.gameRules.Limits.FocusBlockCountMax)
	}

	now := time.Now().UTC()
	dayStart, dayEnd := utcDayBounds(now)

	var decision *IntentionDecision
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := is.RolloverExpired(ctx, tx, userID, now); err != nil {
			return err
		}

		unresolved, err := is.resultRepo.LatestUnresolvedBefore(ctx, tx, userID, dayStart)
		if err != nil {
			return fmt.Errorf("check pending recovery: %w", err)
		}
		if unresolved != nil {
			return apierr.Errorf(http.StatusConflict, "recovery_pending",
				"Complete the pending recovery quest before setting a new Daily Intention")
		}

		existing, err := is.intentionRepo.GetForUserBetween(ctx, tx, userID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("check today's intention: %w", err)
		}
		if existing != nil {
			return apierr.Errorf(http.StatusBadRequest, "intention_exists",
				"A Daily Intention already exists for today")
		}

		analysis, err := is.coachService.AnalyzeIntention(ctx, text, input.TargetQuantity, input.FocusBlockCount)
		if err != nil {
			return fmt.Errorf("analyze intention: %w", err)
		}

		if !analysis.IsStrong && !input.IsRefined {
			recordCoaching(ctx, tx, is.coachingLogRepo, is.log, userID,
				types.CoachTriggerIntentionAnalysis, text, analysis.Feedback,
				map[string]any{"needs_refinement": true})
			decision = &IntentionDecision{NeedsRefinement: true, AIFeedback: analysis.Feedback}
			return nil
		}

		intention := &types.DailyIntention{
			UserID:          userID,
			IntentionText:   text,
			TargetQuantity:  input.TargetQuantity,
			FocusBlockCount: input.FocusBlockCount,
			Status:          types.IntentionStatusPending,
			AIFeedback:      &analysis.Feedback,
		}
		if _, err := is.intentionRepo.Create(ctx, tx, []*types.DailyIntention{intention}); err != nil {
			return fmt.Errorf("create intention: %w", err)
		}

		// Clarity is earned by writing a strong intention, not by overriding
		// the coach with is_refined.
		if analysis.IsStrong {
			if _, err := is.statsService.Grant(ctx, tx, userID, Gain{Clarity: is.gameRules.Rewards.ClarityPerIntention}); err != nil {
				return err
			}
		}

		recordCoaching(ctx, tx, is.coachingLogRepo, is.log, userID,
			types.CoachTriggerIntentionAnalysis, text, analysis.Feedback,
			map[string]any{"needs_refinement": false, "is_strong": analysis.IsStrong})

		view, err := is.BuildView(ctx, tx, intention)
		if err != nil {
			return err
		}
		decision = &IntentionDecision{NeedsRefinement: false, AIFeedback: analysis.Feedback, Intention: view}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decision.Intention != nil {
		is.log.Info("Daily intention created", "user_id", userID, "intention_id", decision.Intention.ID)
	} else {
		is.log.Info("Daily intention sent back for refinement", "user_id", userID)
	}
	return decision, nil
}

func (is *intentionService) GetToday(ctx context.Context, userID uuid.UUID) (*IntentionView, error) {
	now := time.Now().UTC()

	var view *IntentionView
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		intention, err := is.todayIntention(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		view, err = is.BuildView(ctx, tx, intention)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateProgress moves the completed counter strictly forward, clamped at the
// target. Hitting the target never resolves the day on its own; the user
// declares completion explicitly.
func (is *intentionService) UpdateProgress(ctx context.Context, userID uuid.UUID, completed int) (*IntentionView, error) {
	if completed < 0 || completed > is.gameRules.Limits.CompletedQuantityMax {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The completed quantity must be between 0 and %d", is.gameRules.Limits.CompletedQuantityMax)
	}

	now := time.Now().UTC()
	var view *IntentionView
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		intention, err := is.todayIntention(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		if !intention.Open() {
			return apierr.Errorf(http.StatusBadRequest, "already_resolved",
				"Today's Daily Intention is already resolved")
		}
		if completed < intention.CompletedQuantity {
			return apierr.Errorf(http.StatusBadRequest, "progress_backwards",
				"Progress cannot move backwards")
		}
		if completed > intention.TargetQuantity {
			completed = intention.TargetQuantity
		}
		intention.CompletedQuantity = completed
		if completed > 0 && intention.Status == types.IntentionStatusPending {
			intention.Status = types.IntentionStatusInProgress
		}
		if err := is.intentionRepo.Update(ctx, tx, intention); err != nil {
			return fmt.Errorf("update intention: %w", err)
		}
		view, err = is.BuildView(ctx, tx, intention)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Complete resolves today's intention as a win. Requires the target to be met
// and pays out the completion reward plus a streak advance.
func (is *intentionService) Complete(ctx context.Context, userID uuid.UUID) (*DayCloseView, error) {
	now := time.Now().UTC()

	var dayClose *DayCloseView
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		intention, err := is.todayIntention(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		if !intention.Open() {
			return apierr.Errorf(http.StatusBadRequest, "already_resolved",
				"Today's Daily Intention is already resolved")
		}
		if !intention.TargetMet() {
			return apierr.Errorf(http.StatusBadRequest, "target_not_met",
				"Reach the target quantity before completing the day")
		}
		if err := is.ensureNoResult(ctx, tx, intention.ID); err != nil {
			return err
		}

		rate := intention.CompletionPercentage()
		feedback, err := is.coachService.DailyFeedback(ctx, intention.IntentionText, true, rate)
		if err != nil {
			return fmt.Errorf("coach daily feedback: %w", err)
		}

		intention.Status = types.IntentionStatusCompleted
		if err := is.intentionRepo.Update(ctx, tx, intention); err != nil {
			return fmt.Errorf("update intention: %w", err)
		}

		result := &types.DailyResult{
			DailyIntentionID: intention.ID,
			Succeeded:        true,
			XPAwarded:        is.gameRules.Rewards.IntentionXP,
			DisciplineGain:   is.gameRules.Rewards.DisciplinePerWin,
			AIFeedback:       &feedback,
		}
		if _, err := is.resultRepo.Create(ctx, tx, []*types.DailyResult{result}); err != nil {
			return fmt.Errorf("create daily result: %w", err)
		}

		if _, err := is.statsService.Grant(ctx, tx, userID, Gain{
			XP:         is.gameRules.Rewards.IntentionXP,
			Discipline: is.gameRules.Rewards.DisciplinePerWin,
		}); err != nil {
			return err
		}

		users, err := is.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) > 0 {
			if _, err := is.streakService.RecordWin(ctx, tx, users[0]); err != nil {
				return err
			}
		}

		recordCoaching(ctx, tx, is.coachingLogRepo, is.log, userID,
			types.CoachTriggerDailyReflection, intention.IntentionText, feedback,
			map[string]any{"succeeded": true, "completion_rate": rate})

		view, err := is.BuildView(ctx, tx, intention)
		if err != nil {
			return err
		}
		dayClose = &DayCloseView{Intention: view, Result: result, AIFeedback: feedback}
		return nil
	})
	if err != nil {
		return nil, err
	}

	is.log.Info("Daily intention completed", "user_id", userID, "intention_id", dayClose.Result.DailyIntentionID)
	return dayClose, nil
}

// Fail resolves today's intention as a loss and issues a recovery quest. No
// XP moves until the recovery reflection is submitted.
func (is *intentionService) Fail(ctx context.Context, userID uuid.UUID) (*DayCloseView, error) {
	now := time.Now().UTC()

	var dayClose *DayCloseView
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		intention, err := is.todayIntention(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		if !intention.Open() {
			return apierr.Errorf(http.StatusBadRequest, "already_resolved",
				"Today's Daily Intention is already resolved")
		}
		if err := is.ensureNoResult(ctx, tx, intention.ID); err != nil {
			return err
		}

		rate := intention.CompletionPercentage()
		feedback, err := is.coachService.DailyFeedback(ctx, intention.IntentionText, false, rate)
		if err != nil {
			return fmt.Errorf("coach daily feedback: %w", err)
		}
		quest, err := is.coachService.BuildRecoveryQuest(ctx, intention.IntentionText, rate)
		if err != nil {
			return fmt.Errorf("coach recovery quest: %w", err)
		}

		intention.Status = types.IntentionStatusFailed
		if err := is.intentionRepo.Update(ctx, tx, intention); err != nil {
			return fmt.Errorf("update intention: %w", err)
		}

		result := &types.DailyResult{
			DailyIntentionID:  intention.ID,
			Succeeded:         false,
			AIFeedback:        &feedback,
			RecoveryQuest:     &quest,
			RecoveryQuestType: types.RecoveryQuestTypeReflection,
		}
		if _, err := is.resultRepo.Create(ctx, tx, []*types.DailyResult{result}); err != nil {
			return fmt.Errorf("create daily result: %w", err)
		}

		recordCoaching(ctx, tx, is.coachingLogRepo, is.log, userID,
			types.CoachTriggerDailyReflection, intention.IntentionText, feedback,
			map[string]any{"succeeded": false, "completion_rate": rate})

		view, err := is.BuildView(ctx, tx, intention)
		if err != nil {
			return err
		}
		dayClose = &DayCloseView{Intention: view, Result: result, AIFeedback: feedback}
		return nil
	})
	if err != nil {
		return nil, err
	}

	is.log.Info("Daily intention failed", "user_id", userID, "intention_id", dayClose.Result.DailyIntentionID)
	return dayClose, nil
}

// RolloverExpired closes out intentions left open from earlier days. Met
// targets still pay the completion reward; everything else fails with a
// recovery quest. Auto-closed wins never advance the streak.
func (is *intentionService) RolloverExpired(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) error {
	dayStart := utcDayStart(now)
	open, err := is.intentionRepo.ListOpenBefore(ctx, tx, userID, dayStart)
	if err != nil {
		return fmt.Errorf("list expired intentions: %w", err)
	}

	for _, intention := range open {
		exists, err := is.resultRepo.ExistsForIntention(ctx, tx, intention.ID)
		if err != nil {
			return fmt.Errorf("check existing result: %w", err)
		}

		rate := intention.CompletionPercentage()
		succeeded := intention.TargetMet()
		if succeeded {
			intention.Status = types.IntentionStatusCompleted
		} else {
			intention.Status = types.IntentionStatusFailed
		}
		if err := is.intentionRepo.Update(ctx, tx, intention); err != nil {
			return fmt.Errorf("close expired intention: %w", err)
		}
		if exists {
			continue
		}

		feedback, err := is.coachService.DailyFeedback(ctx, intention.IntentionText, succeeded, rate)
		if err != nil {
			return fmt.Errorf("coach daily feedback: %w", err)
		}
		result := &types.DailyResult{
			DailyIntentionID: intention.ID,
			Succeeded:        succeeded,
			AIFeedback:       &feedback,
		}
		if succeeded {
			result.XPAwarded = is.gameRules.Rewards.IntentionXP
			result.DisciplineGain = is.gameRules.Rewards.DisciplinePerWin
		} else {
			quest, err := is.coachService.BuildRecoveryQuest(ctx, intention.IntentionText, rate)
			if err != nil {
				return fmt.Errorf("coach recovery quest: %w", err)
			}
			result.RecoveryQuest = &quest
			result.RecoveryQuestType = types.RecoveryQuestTypeReflection
		}
		if _, err := is.resultRepo.Create(ctx, tx, []*types.DailyResult{result}); err != nil {
			return fmt.Errorf("create rollover result: %w", err)
		}

		if succeeded {
			if _, err := is.statsService.Grant(ctx, tx, userID, Gain{
				XP:         is.gameRules.Rewards.IntentionXP,
				Discipline: is.gameRules.Rewards.DisciplinePerWin,
			}); err != nil {
				return err
			}
		}

		recordCoaching(ctx, tx, is.coachingLogRepo, is.log, userID,
			types.CoachTriggerDailyReflection, intention.IntentionText, feedback,
			map[string]any{"auto_closed": true, "succeeded": succeeded, "completion_rate": rate})

		is.log.Info("Rolled over expired intention",
			"user_id", userID, "intention_id", intention.ID, "succeeded", succeeded)
	}
	return nil
}

func (is *intentionService) BuildView(ctx context.Context, tx *gorm.DB, intention *types.DailyIntention) (*IntentionView, error) {
	blocks, err := is.focusBlockRepo.ListByIntentionIDs(ctx, tx, []uuid.UUID{intention.ID})
	if err != nil {
		return nil, fmt.Errorf("load focus blocks: %w", err)
	}
	results, err := is.resultRepo.GetByIntentionIDs(ctx, tx, []uuid.UUID{intention.ID})
	if err != nil {
		return nil, fmt.Errorf("load daily result: %w", err)
	}
	var result *types.DailyResult
	if len(results) > 0 {
		result = results[0]
	}
	return &IntentionView{
		ID:                   intention.ID,
		IntentionText:        intention.IntentionText,
		TargetQuantity:       intention.TargetQuantity,
		CompletedQuantity:    intention.CompletedQuantity,
		FocusBlockCount:      intention.FocusBlockCount,
		Status:               intention.Status,
		AIFeedback:           intention.AIFeedback,
		CompletionPercentage: intention.CompletionPercentage(),
		CreatedAt:            intention.CreatedAt,
		FocusBlocks:          blocks,
		DailyResult:          result,
	}, nil
}

// todayIntention rolls expired days forward, then returns today's intention
// or a 404 inviting the user to create one.
func (is *intentionService) todayIntention(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) (*types.DailyIntention, error) {
	if err := is.RolloverExpired(ctx, tx, userID, now); err != nil {
		return nil, err
	}
	dayStart, dayEnd := utcDayBounds(now)
	intention, err := is.intentionRepo.GetForUserBetween(ctx, tx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load today's intention: %w", err)
	}
	if intention == nil {
		return nil, apierr.Errorf(http.StatusNotFound, "no_intention_today",
			"No Daily Intention set for today. Create one to begin.")
	}
	return intention, nil
}

func (is *intentionService) ensureNoResult(ctx context.Context, tx *gorm.DB, intentionID uuid.UUID) error {
	exists, err := is.resultRepo.ExistsForIntention(ctx, tx, intentionID)
	if err != nil {
		return fmt.Errorf("check existing result: %w", err)
	}
	if exists {
		return apierr.Errorf(http.StatusBadRequest, "already_resolved",
			"Today's Daily Intention is already resolved")
	}
	return nil
}
