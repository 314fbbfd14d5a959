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

// OnboardingStepResult reports which step was answered and what comes next.
type OnboardingStepResult struct {
	Step               string  `json:"step"`
	Acknowledgement    string  `json:"acknowledgement"`
	NextStep           *string `json:"next_step"`
	OnboardingComplete bool    `json:"onboarding_complete"`
}

// OnboardingService walks a new user through the four setup questions in
// order: vision, milestone, constraint, highest leverage activity.
type OnboardingService interface {
	SubmitStep(ctx context.Context, userID uuid.UUID, answer string) (*OnboardingStepResult, error)
}

type onboardingService struct {
	db              *gorm.DB
	log             *logger.Logger
	gameRules       rules.Rules
	userRepo        repos.UserRepo
	coachingLogRepo repos.CoachingLogRepo
	coachService    CoachService
	streakService   StreakService
}

func NewOnboardingService(
	db *gorm.DB,
	log *logger.Logger,
	gameRules rules.Rules,
	userRepo repos.UserRepo,
	coachingLogRepo repos.CoachingLogRepo,
	coachService CoachService,
	streakService StreakService,
) OnboardingService {
	serviceLog := log.With("service", "OnboardingService")
	return &onboardingService{
		db:              db,
		log:             serviceLog,
		gameRules:       gameRules,
		userRepo:        userRepo,
		coachingLogRepo: coachingLogRepo,
		coachService:    coachService,
		streakService:   streakService,
	}
}

// SubmitStep stores the answer for whichever step the user is on. The final
// step locks in the highest leverage activity and counts as a streak win.
func (obs *onboardingService) SubmitStep(ctx context.Context, userID uuid.UUID, answer string) (*OnboardingStepResult, error) {
	var result *OnboardingStepResult
	err := obs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := obs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return apierr.Errorf(http.StatusNotFound, "user_not_found", "User not found")
		}
		user := users[0]

		step := user.NextOnboardingStep()
		if step == "" {
			return apierr.Errorf(http.StatusBadRequest, "onboarding_complete", "Onboarding is already complete")
		}

		trimmed := normalization.TrimTextPtr(&answer)
		if err := obs.validateAnswer(step, trimmed); err != nil {
			return err
		}

		switch step {
		case types.OnboardingStepVision:
			user.Vision = trimmed
		case types.OnboardingStepMilestone:
			user.Milestone = trimmed
		case types.OnboardingStepConstraint:
			user.Constraint = trimmed
		case types.OnboardingStepHLA:
			user.HighestLeverageActivity = trimmed
		}

		if err := obs.userRepo.Update(ctx, tx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if step == types.OnboardingStepHLA {
			if _, err := obs.streakService.RecordWin(ctx, tx, user); err != nil {
				return err
			}
		}

		reply, err := obs.coachService.OnboardingReply(ctx, step, *trimmed)
		if err != nil {
			return fmt.Errorf("coach onboarding reply: %w", err)
		}
		recordCoaching(ctx, tx, obs.coachingLogRepo, obs.log, userID,
			types.CoachTriggerOnboarding, *trimmed, reply, map[string]any{"step": step})

		var nextStep *string
		if ns := user.NextOnboardingStep(); ns != "" {
			nextStep = &ns
		}
		result = &OnboardingStepResult{
			Step:               step,
			Acknowledgement:    reply,
			NextStep:           nextStep,
			OnboardingComplete: user.OnboardingComplete(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	obs.log.Info("Onboarding step answered", "user_id", userID, "step", result.Step, "complete", result.OnboardingComplete)
	return result, nil
}

func (obs *onboardingService) validateAnswer(step string, v *string) error {
	if step == types.OnboardingStepHLA {
		if v == nil || utf8.RuneCountInString(*v) < obs.gameRules.Limits.HLAMinLen {
			return apierr.Errorf(http.StatusBadRequest, "validation_failed",
				"The highest leverage activity must be at least %d characters", obs.gameRules.Limits.HLAMinLen)
		}
		if utf8.RuneCountInString(*v) > obs.gameRules.Limits.HLAMaxLen {
			return apierr.Errorf(http.StatusBadRequest, "validation_failed",
				"The highest leverage activity must be at most %d characters", obs.gameRules.Limits.HLAMaxLen)
		}
		return nil
	}
	if v == nil {
		return apierr.Errorf(http.StatusBadRequest, "validation_failed", "An answer is required")
	}
	if utf8.RuneCountInString(*v) > obs.gameRules.Limits.OnboardingAnswerMax {
		return apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The answer must be at most %d characters", obs.gameRules.Limits.OnboardingAnswerMax)
	}
	return nil
}
