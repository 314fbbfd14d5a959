package app

import (
	"github.com/gin-gonic/gin"

	"github.com/xecuteapp/backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:     cfg.ServiceName,
		CORSOrigins:     cfg.CORSOrigins,
		MediaDir:        cfg.MediaDir,
		MediaPublicBase: cfg.MediaPublicBase,

		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		OnboardingHandler: handlers.Onboarding,
		IntentionHandler:  handlers.Intention,
		FocusBlockHandler: handlers.FocusBlock,
		ResultHandler:     handlers.Result,

		AuthMiddleware:   middleware.Auth,
		LoginRateLimiter: middleware.AuthRate,
	})
}
