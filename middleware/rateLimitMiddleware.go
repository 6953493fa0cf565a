package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rateLimitClient *redis.Client

// InitRateLimiter wires the redis client used by RateLimit. A nil client
// turns the limiter into a pass-through.
func InitRateLimiter(client *redis.Client) {
	rateLimitClient = client
}

// RateLimit applies a fixed window of `limit` requests per client IP and
// route. Redis errors fail open; throttling bookings is never worth failing
// them.
func RateLimit(limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimitClient == nil {
			c.Next()
			return
		}
		key := fmt.Sprintf("ratelimit:%s:%s", c.ClientIP(), c.FullPath())
		ctx := c.Request.Context()

		count, err := rateLimitClient.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rateLimitClient.Expire(ctx, key, window)
		}
		if count > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many requests, please try again shortly",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
