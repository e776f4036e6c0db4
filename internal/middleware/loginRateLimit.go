package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hakwonplus/academy-api/internal/ratelimit"
	"github.com/hakwonplus/academy-api/internal/storage"
)

// LoginRateLimit throttles auth attempts per client IP to slow down
// credential stuffing. Redis errors let the request through - login
// availability beats throttling accuracy.
func LoginRateLimit(redis *storage.RedisClient, limit int, window time.Duration) gin.HandlerFunc {
	limiter := ratelimit.NewFixedWindow(redis, "login", limit, window)

	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			resetTime, _ := limiter.Reset(c.Request.Context(), key)
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many login attempts, try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
