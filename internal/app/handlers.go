package app

import (
	"github.com/xecuteapp/backend/internal/handlers"
	"github.com/xecuteapp/backend/internal/platform/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Onboarding *handlers.OnboardingHandler
	Intention  *handlers.IntentionHandler
	FocusBlock *handlers.FocusBlockHandler
	Result     *handlers.ResultHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(services.Auth),
		User:       handlers.NewUserHandler(services.User, services.Stats, services.GameState),
		Onboarding: handlers.NewOnboardingHandler(services.Onboarding),
		Intention:  handlers.NewIntentionHandler(services.Intention),
		FocusBlock: handlers.NewFocusBlockHandler(services.FocusBlock),
		Result:     handlers.NewResultHandler(services.Result),
	}
}
