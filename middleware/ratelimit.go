package middleware

import (
	"strconv"
	"time"

	"docqa-service/internal/logger"
	"docqa-service/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware implements a fixed-window limiter in Redis, keyed by client IP
// and route. When Redis is unreachable requests are let through.
func RateLimitMiddleware(rdb redis.Cmdable, limit, windowSeconds int) gin.HandlerFunc {
	window := time.Duration(windowSeconds) * time.Second

	return func(c *gin.Context) {
		// Skip rate limiting for health checks
		if c.FullPath() == "/health" || c.FullPath() == "/ready" {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP() + ":" + c.FullPath()

		ctx, cancel := utils.WithShortTimeout(c.Request.Context())
		defer cancel()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", "error", err, "request_id", GetRequestID(c))
			c.Next()
			return
		}

		// Set expiration on first request
		if count == 1 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				logger.Warn("Failed to set rate limit window", "key", key, "error", err)
			}
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))

		if count > int64(limit) {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(window).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(windowSeconds))

			utils.RespondWithTooManyRequests(c,
				"Too many requests. Please try again later.",
				gin.H{
					"retry_after": windowSeconds,
					"limit":       limit,
				})
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(limit-int(count)))
		c.Next()
	}
}
