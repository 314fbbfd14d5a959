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
	"github.com/xecuteapp/backend/internal/utils"
)

// UpdateUserInput carries partial profile updates. Nil fields are left alone.
type UpdateUserInput struct {
	Name                     *string `json:"name"`
	Vision                   *string `json:"vision"`
	Milestone                *string `json:"milestone"`
	Constraint               *string `json:"constraint"`
	HighestLeverageActivity  *string `json:"highest_leverage_activity"`
	DefaultFocusBlockMinutes *int    `json:"default_focus_block_minutes"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error)
	ListCoachingLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*types.CoachingLog, error)
}

type userService struct {
	db              *gorm.DB
	log             *logger.Logger
	gameRules       rules.Rules
	userRepo        repos.UserRepo
	coachingLogRepo repos.CoachingLogRepo
	streakService   StreakService
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	gameRules rules.Rules,
	userRepo repos.UserRepo,
	coachingLogRepo repos.CoachingLogRepo,
	streakService StreakService,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:              db,
		log:             serviceLog,
		gameRules:       gameRules,
		userRepo:        userRepo,
		coachingLogRepo: coachingLogRepo,
		streakService:   streakService,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.loadUser(ctx, nil, userID)
}

// UpdateMe applies a partial profile update. Setting the highest leverage
// activity for the first time completes onboarding and counts as a streak win.
func (us *userService) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateUserInput) (*types.User, error) {
	var updated *types.User
	err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := us.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		firstHLA := false
		if input.Name != nil {
			name := normalization.TrimText(*input.Name)
			if err := utils.ValidateName(name); err != nil {
				return apierr.New(http.StatusBadRequest, "validation_failed", err)
			}
			user.Name = name
		}
		if input.Vision != nil {
			v, err := us.answerField("vision", input.Vision)
			if err != nil {
				return err
			}
			user.Vision = v
		}
		if input.Milestone != nil {
			v, err := us.answerField("milestone", input.Milestone)
			if err != nil {
				return err
			}
			user.Milestone = v
		}
		if input.Constraint != nil {
			v, err := us.answerField("constraint", input.Constraint)
			if err != nil {
				return err
			}
			user.Constraint = v
		}
		if input.HighestLeverageActivity != nil {
			v := normalization.TrimTextPtr(input.HighestLeverageActivity)
			if err := us.validateHLA(v); err != nil {
				return err
			}
			firstHLA = user.HighestLeverageActivity == nil
			user.HighestLeverageActivity = v
		}
		if input.DefaultFocusBlockMinutes != nil {
			minutes := *input.DefaultFocusBlockMinutes
			if minutes < 1 || minutes > us.gameRules.Limits.FocusBlockMinutesMax {
				return apierr.Errorf(http.StatusBadRequest, "validation_failed",
					"Default focus block minutes must be between 1 and %d", us.gameRules.Limits.FocusBlockMinutesMax)
			}
			user.DefaultFocusBlockMinutes = minutes
		}

		if err := us.userRepo.Update(ctx, tx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if firstHLA {
			if _, err := us.streakService.RecordWin(ctx, tx, user); err != nil {
				return err
			}
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("User profile updated", "user_id", userID)
	return updated, nil
}

func (us *userService) ListCoachingLogs(ctx context.Context, userID uuid.UUID, limit int) ([]*types.CoachingLog, error) {
	logs, err := us.coachingLogRepo.ListByUserID(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list coaching logs: %w", err)
	}
	return logs, nil
}

func (us *userService) loadUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Errorf(http.StatusNotFound, "user_not_found", "User not found")
	}
	return users[0], nil
}

func (us *userService) answerField(field string, raw *string) (*string, error) {
	v := normalization.TrimTextPtr(raw)
	if v != nil && utf8.RuneCountInString(*v) > us.gameRules.Limits.OnboardingAnswerMax {
		return nil, apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The %s answer must be at most %d characters", field, us.gameRules.Limits.OnboardingAnswerMax)
	}
	return v, nil
}

func (us *userService) validateHLA(v *string) error {
	if v == nil || utf8.RuneCountInString(*v) < us.gameRules.Limits.HLAMinLen {
		return apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The highest leverage activity must be at least %d characters", us.gameRules.Limits.HLAMinLen)
	}
	if utf8.RuneCountInString(*v) > us.gameRules.Limits.HLAMaxLen {
		return apierr.Errorf(http.StatusBadRequest, "validation_failed",
			"The highest leverage activity must be at most %d characters", us.gameRules.Limits.HLAMaxLen)
	}
	return nil
}
