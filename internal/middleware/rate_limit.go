package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per user in fixed Redis windows. Without Redis,
// or while Redis is failing, it falls back to in-process token buckets.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	now    func() time.Time

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	if config.Limit < 1 {
		config.Limit = 1
	}
	if config.Window <= 0 {
		config.Window = time.Hour
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
		local:  make(map[string]*rate.Limiter),
	}
}

// NewModelTrainingRateLimiter limits manual training requests per user
func NewModelTrainingRateLimiter(redisClient *redis.Client, window time.Duration, limit int) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:model_training",
	})
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			abortUnauthorized(c, "user not authenticated")
			return
		}

		allowed, remaining, resetTime := rl.IsAllowed(c.Request.Context(), fmt.Sprintf("%v", userID))

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(resetTime.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limit_exceeded",
				"message":     fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}

// IsAllowed checks if a request from the given key is allowed
// Returns: allowed, remaining requests, reset time
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time) {
	if rl.redis != nil {
		allowed, remaining, reset, err := rl.redisAllowed(ctx, key)
		if err == nil {
			return allowed, remaining, reset
		}
	}
	return rl.localAllowed(key)
}

func (rl *RateLimiter) redisAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	windowStart := rl.now().Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.TxPipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

func (rl *RateLimiter) localAllowed(key string) (bool, int, time.Time) {
	interval := rl.config.Window / time.Duration(rl.config.Limit)

	rl.mu.Lock()
	lim, ok := rl.local[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(interval), rl.config.Limit)
		rl.local[key] = lim
	}
	rl.mu.Unlock()

	now := rl.now()
	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)

	reset := now
	if tokens < 1 {
		reset = now.Add(time.Duration((1 - tokens) * float64(interval)))
	}
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining, reset
}
