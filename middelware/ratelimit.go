package middelware

import (
	"fmt"
	"net/http"
	"time"

	"b2bconnect-backend/models"
	"b2bconnect-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitMiddleware throttles clients with a fixed per-minute window in
// Redis. Counters live under one key per client and window and expire on
// their own.
type RateLimitMiddleware struct {
	client *redis.Client
	config *models.Config
	logger logger.Logger
}

// NewRateLimitMiddleware creates a Redis-backed rate limiter
func NewRateLimitMiddleware(cfg *models.Config, log logger.Logger) *RateLimitMiddleware {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	return &RateLimitMiddleware{
		client: client,
		config: cfg,
		logger: log,
	}
}

// Limit returns a gin.HandlerFunc enforcing the configured request budget.
// Redis being down fails open; throttling is protection, not correctness.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := m.config.RateLimitRequestsPerMinute
		if limit <= 0 {
			c.Next()
			return
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		count, err := m.client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			m.logger.Warnf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			m.client.Expire(c.Request.Context(), key, time.Minute)
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: "too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
