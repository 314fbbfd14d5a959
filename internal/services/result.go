package services

import (
	"context"
	"fmt"
	"net/http"
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

// RecoverySubmission reports the resolved recovery quest and its payout.
type RecoverySubmission struct {
	Result         *types.DailyResult `json:"result"`
	Coaching       string             `json:"coaching"`
	XPAwarded      int                `json:"xp_awarded"`
	ResilienceGain int                `json:"resilience_gain"`
}

type ResultService interface {
	GetByIntentionID(ctx context.Context, userID, intentionID uuid.UUID) (*types.DailyResult, error)
	SubmitRecovery(ctx context.Context, userID, resultID uuid.UUID, response string) (*RecoverySubmission, error)
}

type resultService struct {
	db              *gorm.DB
	log             *logger.Logger
	gameRules       rules.Rules
	userRepo        repos.UserRepo
	resultRepo      repos.DailyResultRepo
	coachingLogRepo repos.CoachingLogRepo
	coachService    CoachService
	statsService    StatsService
	streakService   StreakService
}

func NewResultService(
	db *gorm.DB,
	log *logger.Logger,
	gameRules rules.Rules,
	userRepo repos.UserRepo,
	resultRepo repos.DailyResultRepo,
	coachingLogRepo repos.CoachingLogRepo,
	coachService CoachService,
	statsService StatsService,
	streakService StreakService,
) ResultService {
	serviceLog := log.With("service", "ResultService")
	return &resultService{
		db:              db,
		log:             serviceLog,
		gameRules:       gameRules,
		userRepo:        userRepo,
		resultRepo:      resultRepo,
		coachingLogRepo: coachingLogRepo,
		coachService:    coachService,
		statsService:    statsService,
		streakService:   streakService,
	}
}

func (rs *resultService) GetByIntentionID(ctx context.Context, userID, intentionID uuid.UUID) (*types.DailyResult, error) {
	result, err := rs.resultRepo.GetByIntentionIDForUser(ctx, nil, intentionID, userID)
	if err != nil {
		return nil, fmt.Errorf("load daily result: %w", err)
	}
	if result == nil {
		return nil, apierr.Errorf(http.StatusNotFound, "result_not_found",
			"No Daily Result recorded for this intention")
	}
	return result, nil
}

// SubmitRecovery resolves a failed day's recovery quest. The reflection pays
// the recovery reward, counts as a streak win, and unblocks the next day's
// intention.
func (rs *resultService) SubmitRecovery(ctx context.Context, userID, resultID uuid.UUID, response string) (*RecoverySubmission, error) {
	trimmed := normalization.TrimText(response)
	if trimmed == "" {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed", "A reflection response is required")
	}
	if utf8.RuneCountInString(trimmed) > rs.gameRules.Limits.ReflectionTextMax {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The reflection must be at most %d characters", rs.gameRules.Limits.ReflectionTextMax)
	}

	var submission *RecoverySubmission
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result, err := rs.resultRepo.GetByIDForUser(ctx, tx, resultID, userID)
		if err != nil {
			return fmt.Errorf("load daily result: %w", err)
		}
		if result == nil {
			return apierr.Errorf(http.StatusNotFound, "result_not_found", "Daily result not found")
		}
		if result.RecoveryQuest == nil {
			return apierr.Errorf(http.StatusBadRequest, "no_recovery_quest",
				"This daily result has no recovery quest")
		}
		if result.RecoveryQuestCompleted {
			return apierr.Errorf(http.StatusBadRequest, "recovery_already_completed",
				"This recovery quest is already completed")
		}

		coaching, err := rs.coachService.RecoveryCoaching(ctx, *result.RecoveryQuest, trimmed)
		if err != nil {
			return fmt.Errorf("coach recovery reply: %w", err)
		}

		result.RecoveryQuestResponse = &trimmed
		result.RecoveryQuestCompleted = true
		result.ResilienceGain = rs.gameRules.Rewards.ResiliencePerRecover
		result.XPAwarded += rs.gameRules.Rewards.RecoveryXP
		if err := rs.resultRepo.Update(ctx, tx, result); err != nil {
			return fmt.Errorf("update daily result: %w", err)
		}

		if _, err := rs.statsService.Grant(ctx, tx, userID, Gain{
			XP:         rs.gameRules.Rewards.RecoveryXP,
			Resilience: rs.gameRules.Rewards.ResiliencePerRecover,
		}); err != nil {
			return err
		}

		users, err := rs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) > 0 {
			if _, err := rs.streakService.RecordWin(ctx, tx, users[0]); err != nil {
				return err
			}
		}

		recordCoaching(ctx, tx, rs.coachingLogRepo, rs.log, userID,
			types.CoachTriggerRecoveryQuest, trimmed, coaching,
			map[string]any{"quest": *result.RecoveryQuest})

		submission = &RecoverySubmission{
			Result:         result,
			Coaching:       coaching,
			XPAwarded:      rs.gameRules.Rewards.RecoveryXP,
			ResilienceGain: rs.gameRules.Rewards.ResiliencePerRecover,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rs.log.Info("Recovery quest completed", "user_id", userID, "result_id", resultID)
	return submission, nil
}
