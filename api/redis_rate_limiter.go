package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neuraldesk/billing/internal/slogging"
)

// RedisRateLimiter is a fixed-window rate limiter backed by Redis, for
// deployments where billing endpoints run on more than one instance.
// Same admission contract as MemoryRateLimiter; the counter key expires
// with the window so a fresh window starts on the next request.
type RedisRateLimiter struct {
	client *redis.Client
}

// NewRedisRateLimiter creates a Redis-backed limiter
func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client}
}

// Admit increments the fixed-window counter for key and admits the
// request while the count is within maxRequests. Infrastructure errors
// are reported in the decision Message; the caller decides whether to
// fail open.
func (l *RedisRateLimiter) Admit(ctx context.Context, key string, maxRequests int, window time.Duration) RateLimitDecision {
	logger := slogging.Get()

	redisKey := "billing:ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		logger.Error("rate limit INCR failed for key %s: %v", key, err)
		return RateLimitDecision{Allowed: true, Message: fmt.Sprintf("rate limit backend error: %v", err)}
	}

	// First hit in a window owns the expiry
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			logger.Error("rate limit EXPIRE failed for key %s: %v", key, err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(maxRequests) {
		return RateLimitDecision{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   resetAt,
			Message:   retryMessage(ttl),
		}
	}

	return RateLimitDecision{
		Allowed:   true,
		Remaining: maxRequests - int(count),
		ResetAt:   resetAt,
	}
}
