package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/apierr"
	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
	"github.com/xecuteapp/backend/internal/types"
)

// GameStateView is the one-call snapshot clients render the home screen from.
// UnresolvedIntention carries a failed earlier day whose recovery quest still
// blocks today.
type GameStateView struct {
	User                *types.User    `json:"user"`
	Stats               *StatsView     `json:"stats"`
	TodayIntention      *IntentionView `json:"today_intention,omitempty"`
	UnresolvedIntention *IntentionView `json:"unresolved_intention,omitempty"`
	NextOnboardingStep  *string        `json:"next_onboarding_step,omitempty"`
	OnboardingComplete  bool           `json:"onboarding_complete"`
}

type GameStateService interface {
	Get(ctx context.Context, userID uuid.UUID) (*GameStateView, error)
}

type gameStateService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	statsRepo        repos.CharacterStatsRepo
	intentionRepo    repos.DailyIntentionRepo
	resultRepo       repos.DailyResultRepo
	intentionService IntentionService
}

func NewGameStateService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	statsRepo repos.CharacterStatsRepo,
	intentionRepo repos.DailyIntentionRepo,
	resultRepo repos.DailyResultRepo,
	intentionService IntentionService,
) GameStateService {
	serviceLog := log.With("service", "GameStateService")
	return &gameStateService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		statsRepo:        statsRepo,
		intentionRepo:    intentionRepo,
		resultRepo:       resultRepo,
		intentionService: intentionService,
	}
}

// Get assembles the full game state, first settling any day rollover so the
// snapshot is current.
func (gs *gameStateService) Get(ctx context.Context, userID uuid.UUID) (*GameStateView, error) {
	now := time.Now().UTC()
	dayStart, dayEnd := utcDayBounds(now)

	var view *GameStateView
	err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gs.intentionService.RolloverExpired(ctx, tx, userID, now); err != nil {
			return err
		}

		users, err := gs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return apierr.Errorf(http.StatusNotFound, "user_not_found", "User not found")
		}
		user := users[0]

		statsRows, err := gs.statsRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load character stats: %w", err)
		}
		if len(statsRows) == 0 {
			return apierr.Errorf(http.StatusNotFound, "stats_not_found", "Character stats not found")
		}

		view = &GameStateView{
			User:               user,
			Stats:              BuildStatsView(statsRows[0]),
			OnboardingComplete: user.OnboardingComplete(),
		}
		if ns := user.NextOnboardingStep(); ns != "" {
			view.NextOnboardingStep = &ns
		}

		today, err := gs.intentionRepo.GetForUserBetween(ctx, tx, userID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("load today's intention: %w", err)
		}
		if today != nil {
			iv, err := gs.intentionService.BuildView(ctx, tx, today)
			if err != nil {
				return err
			}
			view.TodayIntention = iv
		}

		unresolved, err := gs.resultRepo.LatestUnresolvedBefore(ctx, tx, userID, dayStart)
		if err != nil {
			return fmt.Errorf("load unresolved result: %w", err)
		}
		if unresolved != nil {
			intention, err := gs.intentionRepo.GetByIDForUser(ctx, tx, unresolved.DailyIntentionID, userID)
			if err != nil {
				return fmt.Errorf("load unresolved intention: %w", err)
			}
			if intention != nil {
				iv, err := gs.intentionService.BuildView(ctx, tx, intention)
				if err != nil {
					return err
				}
				view.UnresolvedIntention = iv
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
