package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/xecuteapp/backend/internal/handlers"
	"github.com/xecuteapp/backend/internal/middleware"
)

// RouterConfig carries everything NewRouter needs to assemble the HTTP surface.
type RouterConfig struct {
	ServiceName     string
	CORSOrigins     []string
	MediaDir        string
	MediaPublicBase string

	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	OnboardingHandler *handlers.OnboardingHandler
	IntentionHandler  *handlers.IntentionHandler
	FocusBlockHandler *handlers.FocusBlockHandler
	ResultHandler     *handlers.ResultHandler

	AuthMiddleware   *middleware.AuthMiddleware
	LoginRateLimiter *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/", handlers.Welcome)
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.MediaDir != "" && cfg.MediaPublicBase != "" {
		router.Static(cfg.MediaPublicBase, cfg.MediaDir)
	}
	authLimit := cfg.LoginRateLimiter.Limit()
	router.POST("/api/register", authLimit, cfg.AuthHandler.Register)
	router.POST("/api/login", authLimit, cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// User
	protected.GET("/users/me", cfg.UserHandler.GetMe)
	protected.PUT("/users/me", cfg.UserHandler.UpdateMe)
	protected.GET("/users/me/stats", cfg.UserHandler.GetStats)
	protected.GET("/users/me/game-state", cfg.UserHandler.GetGameState)
	protected.GET("/users/me/coaching-logs", cfg.UserHandler.ListCoachingLogs)
	// Onboarding
	protected.POST("/onboarding/step", cfg.OnboardingHandler.SubmitStep)
	// Daily intention
	protected.POST("/intentions", cfg.IntentionHandler.Create)
	protected.GET("/intentions/today/me", cfg.IntentionHandler.GetToday)
	protected.PATCH("/intentions/today/progress", cfg.IntentionHandler.UpdateProgress)
	protected.POST("/intentions/today/complete", cfg.IntentionHandler.Complete)
	protected.POST("/intentions/today/fail", cfg.IntentionHandler.Fail)
	// Focus blocks
	protected.POST("/focus-blocks", cfg.FocusBlockHandler.Create)
	protected.POST("/focus-blocks/:id/start", cfg.FocusBlockHandler.Start)
	protected.PATCH("/focus-blocks/:id", cfg.FocusBlockHandler.Update)
	// Daily results. The GET takes the intention id, the recovery POST the
	// result id.
	protected.GET("/daily-results/:id", cfg.ResultHandler.GetByIntentionID)
	protected.POST("/daily-results/:id/recovery-quest", cfg.ResultHandler.SubmitRecovery)

	return router
}
