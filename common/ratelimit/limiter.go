package ratelimit

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/redis/go-redis/v9"
)

//go:embed rate_limit.lua
var rateLimitScript string

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed           bool  // Whether the request is allowed
	CurrentCount      int64 // Current count in the window
	Limit             int64 // The limit that was checked
	RetryAfterSeconds int64 // Seconds until the limit resets (0 if allowed)
}

// Checker is the subset of the limiter used by HTTP middleware
type Checker interface {
	CheckGlobalLimit(ctx context.Context, limit int64, windowSec int) (*RateLimitResult, error)
	CheckSessionLimit(ctx context.Context, sessionID string, tier UploadTier, limit int64, windowSec int) (*RateLimitResult, error)
}

// RateLimiter provides upload rate limiting using Redis + Lua
type RateLimiter struct {
	redis  *redis.Client
	script *redis.Script
	logger Logger
}

// NewRateLimiter creates a new rate limiter with embedded Lua script
func NewRateLimiter(redisClient *redis.Client, logger Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		script: redis.NewScript(rateLimitScript),
		logger: logger,
	}
}

// CheckGlobalLimit checks the service-wide upload limit
func (r *RateLimiter) CheckGlobalLimit(ctx context.Context, limit int64, windowSec int) (*RateLimitResult, error) {
	return r.checkLimit(ctx, "quoter:rate_limit:global", limit, windowSec)
}

// CheckSessionLimit checks the upload limit of one session. Each tier has
// its own counter so small uploads are not blocked by large ones.
func (r *RateLimiter) CheckSessionLimit(ctx context.Context, sessionID string, tier UploadTier, limit int64, windowSec int) (*RateLimitResult, error) {
	key := fmt.Sprintf("quoter:rate_limit:session:%s:tier:%s", sessionID, tier)
	return r.checkLimit(ctx, key, limit, windowSec)
}

// checkLimit executes the rate limit Lua script
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int64, windowSec int) (*RateLimitResult, error) {
	result, err := r.script.Run(ctx, r.redis, []string{key}, limit, windowSec).Result()
	if err != nil {
		r.logger.Error("rate limit check failed", "key", key, "error", err)
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	rateLimitResult, err := parseScriptResult(result)
	if err != nil {
		return nil, err
	}

	if !rateLimitResult.Allowed {
		r.logger.Warn("rate limit exceeded",
			"key", key,
			"current", rateLimitResult.CurrentCount,
			"limit", limit,
			"retry_after", rateLimitResult.RetryAfterSeconds)
	} else {
		r.logger.Debug("rate limit check passed",
			"key", key,
			"current", rateLimitResult.CurrentCount,
			"limit", limit)
	}

	return rateLimitResult, nil
}

// parseScriptResult decodes {allowed, current_count, limit, retry_after}
func parseScriptResult(result interface{}) (*RateLimitResult, error) {
	values, ok := result.([]interface{})
	if !ok || len(values) != 4 {
		return nil, fmt.Errorf("unexpected script result format")
	}

	ints := make([]int64, len(values))
	for i, v := range values {
		n, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected script result element %d: %T", i, v)
		}
		ints[i] = n
	}

	return &RateLimitResult{
		Allowed:           ints[0] == 1,
		CurrentCount:      ints[1],
		Limit:             ints[2],
		RetryAfterSeconds: ints[3],
	}, nil
}

// ResetLimit clears a session counter
func (r *RateLimiter) ResetLimit(ctx context.Context, sessionID string, tier UploadTier) error {
	key := fmt.Sprintf("quoter:rate_limit:session:%s:tier:%s", sessionID, tier)
	return r.redis.Del(ctx, key).Err()
}
