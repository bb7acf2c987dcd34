package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"referral_rewards/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis for the rate limiter. It returns nil when
// addr is empty or the server does not answer a ping, so callers can fall back
// to the in-memory limiter.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiter", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// RedisRateLimit implements a fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<prefix>:<window_seconds>:<client ip>
func RedisRateLimit(client *redis.Client, prefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	windowKey := strconv.FormatInt(int64(window.Seconds()), 10)
	return func(c *gin.Context) {
		key := "rl:" + prefix + ":" + windowKey + ":" + c.ClientIP()
		ctx := c.Request.Context()

		val, err := client.Incr(ctx, key).Result()
		if err != nil {
			// fail open
			logger.WithContext(ctx).Warn("rate limiter redis error", "error", err)
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}
		if val == 1 {
			client.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// RateLimit picks the Redis limiter when a client is available and the
// in-memory one otherwise.
func RateLimit(client *redis.Client, prefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return NewMemoryRateLimiter(maxRequests, window).Handler()
	}
	return RedisRateLimit(client, prefix, maxRequests, window)
}
