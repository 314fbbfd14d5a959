package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/xecuteapp/backend/internal/platform/logger"
)

// RateLimiter throttles a route per client IP using a redis counter. With no
// redis configured it passes everything through, and a redis outage fails
// open rather than locking users out.
type RateLimiter struct {
	log    *logger.Logger
	rdb    *goredis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(log *logger.Logger, rdb *goredis.Client, limit int, window time.Duration) *RateLimiter {
	middlewareLog := log.With("middleware", "RateLimiter")
	return &RateLimiter{log: middlewareLog, rdb: rdb, limit: limit, window: window}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rdb == nil || rl.limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("rl:%s:%s", c.FullPath(), c.ClientIP())
		count, err := rl.rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			rl.log.Warn("Rate limiter unavailable (ignored)", "error", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.rdb.Expire(c.Request.Context(), key, rl.window).Err(); err != nil {
				rl.log.Warn("Failed to set rate limit expiry (ignored)", "key", key, "error", err)
			}
		}
		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{"message": "Too many attempts. Try again later.", "code": "rate_limited"},
			})
			return
		}
		c.Next()
	}
}
