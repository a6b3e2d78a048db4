package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionRateLimit limits submissions per session (not per IP) using
// Redis. Keys off the :id route param, so it must be attached to routes
// that carry one. Lock contention already serializes writers; this keeps
// a retry storm on one session from hammering the store.
func SessionRateLimit(maxSubmits int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			// Redis not configured, fail-open
			c.Next()
			return
		}

		sessionID := c.Param("id")
		if sessionID == "" {
			c.Next()
			return
		}

		key := "session_rl:" + sessionID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		ctx := context.Background()

		val, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			// On Redis error, fail-open
			c.Header("X-SessionRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			redisClient.Expire(ctx, key, window)
		}

		c.Header("X-SessionRateLimit-Limit", strconv.Itoa(maxSubmits))
		c.Header("X-SessionRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxSubmits)-val), 10))

		if val > int64(maxSubmits) {
			RLBlocked.WithLabelValues("session:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "session rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("session:" + c.FullPath()).Inc()
		c.Next()
	}
}

func max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
