package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/rules"
	"github.com/xecuteapp/backend/internal/services"
)

type Services struct {
	Avatar     services.AvatarService
	Coach      services.CoachService
	Streak     services.StreakService
	Stats      services.StatsService
	Auth       services.AuthService
	User       services.UserService
	Onboarding services.OnboardingService
	Intention  services.IntentionService
	FocusBlock services.FocusBlockService
	Result     services.ResultService
	GameState  services.GameStateService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, gameRules rules.Rules, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	avatarService, err := services.NewAvatarService(log, cfg.MediaDir, cfg.MediaPublicBase)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}
	coachService, err := services.NewCoachService(log, cfg.CoachProvider)
	if err != nil {
		return Services{}, fmt.Errorf("init coach service: %w", err)
	}

	streakService := services.NewStreakService(db, log, reposet.User)
	statsService := services.NewStatsService(db, log, reposet.CharacterStats)
	authService := services.NewAuthService(
		db,
		log,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		gameRules,
		reposet.User,
		reposet.UserAuth,
		reposet.CharacterStats,
		avatarService,
	)
	userService := services.NewUserService(
		db,
		log,
		gameRules,
		reposet.User,
		reposet.CoachingLog,
		streakService,
	)
	onboardingService := services.NewOnboardingService(
		db,
		log,
		gameRules,
		reposet.User,
		reposet.CoachingLog,
		coachService,
		streakService,
	)
	intentionService := services.NewIntentionService(
		db,
		log,
		gameRules,
		reposet.User,
		reposet.DailyIntention,
		reposet.FocusBlock,
		reposet.DailyResult,
		reposet.CoachingLog,
		coachService,
		statsService,
		streakService,
	)
	focusBlockService := services.NewFocusBlockService(
		db,
		log,
		gameRules,
		reposet.User,
		reposet.DailyIntention,
		reposet.FocusBlock,
		statsService,
		intentionService,
	)
	resultService := services.NewResultService(
		db,
		log,
		gameRules,
		reposet.User,
		reposet.DailyResult,
		reposet.CoachingLog,
		coachService,
		statsService,
		streakService,
	)
	gameStateService := services.NewGameStateService(
		db,
		log,
		reposet.User,
		reposet.CharacterStats,
		reposet.DailyIntention,
		reposet.DailyResult,
		intentionService,
	)

	return Services{
		Avatar:     avatarService,
		Coach:      coachService,
		Streak:     streakService,
		Stats:      statsService,
		Auth:       authService,
		User:       userService,
		Onboarding: onboardingService,
		Intention:  intentionService,
		FocusBlock: focusBlockService,
		Result:     resultService,
		GameState:  gameStateService,
	}, nil
}
