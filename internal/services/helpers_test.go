package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/db"
	"github.com/xecuteapp/backend/internal/platform/apierr"
	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
	"github.com/xecuteapp/backend/internal/rules"
	"github.com/xecuteapp/backend/internal/types"
)

// testEnv wires the full service graph over an in-memory database.
type testEnv struct {
	db    *gorm.DB
	rules rules.Rules

	userRepo      repos.UserRepo
	statsRepo     repos.CharacterStatsRepo
	intentionRepo repos.DailyIntentionRepo
	blockRepo     repos.FocusBlockRepo
	resultRepo    repos.DailyResultRepo
	logRepo       repos.CoachingLogRepo

	auth       AuthService
	users      UserService
	onboarding OnboardingService
	intentions IntentionService
	blocks     FocusBlockService
	results    ResultService
	stats      StatsService
	streak     StreakService
	gameState  GameStateService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.NewSQLiteMemory()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	gameRules := rules.Default()

	userRepo := repos.NewUserRepo(gdb, log)
	userAuthRepo := repos.NewUserAuthRepo(gdb, log)
	statsRepo := repos.NewCharacterStatsRepo(gdb, log)
	intentionRepo := repos.NewDailyIntentionRepo(gdb, log)
	blockRepo := repos.NewFocusBlockRepo(gdb, log)
	resultRepo := repos.NewDailyResultRepo(gdb, log)
	logRepo := repos.NewCoachingLogRepo(gdb, log)

	avatarService, err := NewAvatarService(log, t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("avatar service: %v", err)
	}
	coachService, err := NewCoachService(log, "scripted")
	if err != nil {
		t.Fatalf("coach service: %v", err)
	}

	streakService := NewStreakService(gdb, log, userRepo)
	statsService := NewStatsService(gdb, log, statsRepo)
	authService := NewAuthService(gdb, log, "test-secret", time.Hour, gameRules,
		userRepo, userAuthRepo, statsRepo, avatarService)
	userService := NewUserService(gdb, log, gameRules, userRepo, logRepo, streakService)
	onboardingService := NewOnboardingService(gdb, log, gameRules, userRepo, logRepo, coachService, streakService)
	intentionService := NewIntentionService(gdb, log, gameRules, userRepo, intentionRepo, blockRepo,
		resultRepo, logRepo, coachService, statsService, streakService)
	focusBlockService := NewFocusBlockService(gdb, log, gameRules, userRepo, intentionRepo, blockRepo,
		statsService, intentionService)
	resultService := NewResultService(gdb, log, gameRules, userRepo, resultRepo, logRepo,
		coachService, statsService, streakService)
	gameStateService := NewGameStateService(gdb, log, userRepo, statsRepo, intentionRepo,
		resultRepo, intentionService)

	return &testEnv{
		db:            gdb,
		rules:         gameRules,
		userRepo:      userRepo,
		statsRepo:     statsRepo,
		intentionRepo: intentionRepo,
		blockRepo:     blockRepo,
		resultRepo:    resultRepo,
		logRepo:       logRepo,
		auth:          authService,
		users:         userService,
		onboarding:    onboardingService,
		intentions:    intentionService,
		blocks:        focusBlockService,
		results:       resultService,
		stats:         statsService,
		streak:        streakService,
		gameState:     gameStateService,
	}
}

func registerTestUser(t *testing.T, env *testEnv, email string) *types.User {
	t.Helper()
	user, err := env.auth.RegisterUser(context.Background(), RegisterInput{
		Name:     "Test Player",
		Email:    email,
		Password: "a-long-test-password",
	})
	if err != nil {
		t.Fatalf("register test user: %v", err)
	}
	return user
}

// createTodayIntention sets a strong intention that passes coach analysis.
func createTodayIntention(t *testing.T, env *testEnv, userID uuid.UUID) *IntentionView {
	t.Helper()
	decision, err := env.intentions.Create(context.Background(), userID, CreateIntentionInput{
		IntentionText:   "Write 5 sales pages",
		TargetQuantity:  5,
		FocusBlockCount: 3,
	})
	if err != nil {
		t.Fatalf("create intention: %v", err)
	}
	if decision.NeedsRefinement || decision.Intention == nil {
		t.Fatalf("intention unexpectedly sent to refinement: %+v", decision)
	}
	return decision.Intention
}

func backdateIntention(t *testing.T, env *testEnv, intentionID uuid.UUID, to time.Time) {
	t.Helper()
	err := env.db.Model(&types.DailyIntention{}).Where("id = ?", intentionID).
		Update("created_at", to).Error
	if err != nil {
		t.Fatalf("backdate intention: %v", err)
	}
}

func backdateFocusBlock(t *testing.T, env *testEnv, blockID uuid.UUID, to time.Time) {
	t.Helper()
	err := env.db.Model(&types.FocusBlock{}).Where("id = ?", blockID).
		Update("created_at", to).Error
	if err != nil {
		t.Fatalf("backdate focus block: %v", err)
	}
}

func wantAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("error: want=%d/%s got=nil", status, code)
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("error type: want=*apierr.Error got=%T (%v)", err, err)
	}
	if ae.Status != status || ae.Code != code {
		t.Fatalf("api error: want=%d/%s got=%d/%s", status, code, ae.Status, ae.Code)
	}
}
