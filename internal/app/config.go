package app

import (
	"strings"
	"time"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/utils"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	CORSOrigins     []string
	MediaDir        string
	MediaPublicBase string
	RulesPath       string
	CoachProvider   string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	corsOrigins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
	mediaPublicBase := utils.GetEnv("MEDIA_PUBLIC_BASE", "/media", log)
	rulesPath := utils.GetEnv("GAME_RULES_PATH", "", log)
	coachProvider := utils.GetEnv("COACH_PROVIDER", "scripted", log)
	authRateLimit := utils.GetEnvAsInt("AUTH_RATE_LIMIT", 20, log)
	authRateWindowSeconds := utils.GetEnvAsInt("AUTH_RATE_WINDOW", 60, log)

	return Config{
		ServiceName:     utils.GetEnv("SERVICE_NAME", "game-of-becoming-api", log),
		Environment:     utils.GetEnv("ENVIRONMENT", "development", log),
		Version:         utils.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		CORSOrigins:     splitOrigins(corsOrigins),
		MediaDir:        mediaDir,
		MediaPublicBase: mediaPublicBase,
		RulesPath:       rulesPath,
		CoachProvider:   coachProvider,
		AuthRateLimit:   authRateLimit,
		AuthRateWindow:  time.Duration(authRateWindowSeconds) * time.Second,
	}
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
