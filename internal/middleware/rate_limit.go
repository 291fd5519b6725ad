package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the fixed window requests are counted in
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// KeyPrefix namespaces the Redis counters
	KeyPrefix string
}

// RateLimitStatus describes a user's usage of the current window.
type RateLimitStatus struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
	Allowed   bool      `json:"allowed"`
}

// RateLimiter counts requests per user in fixed windows stored in Redis
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter. A nil client disables limiting.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

// NewPlanGenerationRateLimiter limits meal and workout plan generation to 10 per hour
func NewPlanGenerationRateLimiter(redisClient *redis.Client) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    time.Hour,
		Limit:     10,
		KeyPrefix: "rate_limit:plan_generation",
	})
}

// Config returns the limiter's configuration.
func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

// Middleware enforces the limit for the authenticated user. Redis failures
// are logged and the request is let through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil {
			c.Next()
			return
		}

		userID, exists := c.Get(ContextUserID)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}

		status, err := rl.IsAllowed(c.Request.Context(), fmt.Sprintf("%v", userID))
		if err != nil {
			log.Printf("[RateLimiter] Check failed for %s: %v", rl.config.KeyPrefix, err)
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(status.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(status.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(status.ResetAt.Unix(), 10))

		if !status.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":                "rate limit exceeded",
				"message":              fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
				"rate_limit_remaining": status.Remaining,
				"rate_limit_reset":     status.ResetAt.Unix(),
				"retry_after":          int(time.Until(status.ResetAt).Seconds()),
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) window(userID string) (string, time.Time) {
	windowStart := time.Now().Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix())
	return key, windowStart.Add(rl.config.Window)
}

// IsAllowed counts a request for userID and reports whether it fits the window
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (*RateLimitStatus, error) {
	key, resetAt := rl.window(userID)

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	count := int(incrCmd.Val())
	return &RateLimitStatus{
		Limit:     rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		ResetAt:   resetAt,
		Allowed:   count <= rl.config.Limit,
	}, nil
}

// CheckOnly reports whether one more request would be allowed without counting it
func (rl *RateLimiter) CheckOnly(ctx context.Context, userID string) (*RateLimitStatus, error) {
	if rl.redis == nil {
		_, resetAt := rl.window(userID)
		return &RateLimitStatus{Limit: rl.config.Limit, Remaining: rl.config.Limit, ResetAt: resetAt, Allowed: true}, nil
	}

	key, resetAt := rl.window(userID)
	count, err := rl.redis.Get(ctx, key).Int()
	if errors.Is(err, redis.Nil) {
		count = 0
	} else if err != nil {
		return nil, err
	}

	return &RateLimitStatus{
		Limit:     rl.config.Limit,
		Remaining: max(rl.config.Limit-count, 0),
		ResetAt:   resetAt,
		Allowed:   count < rl.config.Limit,
	}, nil
}
