package app

import (
	"github.com/xecuteapp/backend/internal/middleware"
	"github.com/xecuteapp/backend/internal/platform/logger"
)

type Middleware struct {
	Auth     *middleware.AuthMiddleware
	AuthRate *middleware.RateLimiter
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services, clients Clients) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:     middleware.NewAuthMiddleware(log, services.Auth),
		AuthRate: middleware.NewRateLimiter(log, clients.Redis, cfg.AuthRateLimit, cfg.AuthRateWindow),
	}
}
