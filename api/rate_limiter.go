package api

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// RateLimitDecision is the outcome of one admission check
type RateLimitDecision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	// Message carries the client-facing rejection text (seconds until
	// reset) or an infrastructure error description.
	Message string
}

// RateLimiter admits or rejects a request for a key under a fixed-window
// policy. Implementations are injected into the middleware so tests can
// run independent limiters and a distributed backend can be substituted.
type RateLimiter interface {
	Admit(ctx context.Context, key string, maxRequests int, window time.Duration) RateLimitDecision
}

type windowRecord struct {
	count   int
	resetAt time.Time
}

// MemoryRateLimiter is a fixed-window, in-process rate limiter. It is
// best-effort: counts are process-scoped, lost on restart, and not
// coordinated across horizontally-scaled instances. Deployments that
// need shared limits use RedisRateLimiter behind the same interface.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	records map[string]*windowRecord
	now     func() time.Time
}

// NewMemoryRateLimiter creates an empty in-memory limiter
func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		records: make(map[string]*windowRecord),
		now:     time.Now,
	}
}

// Admit checks and updates the fixed-window counter for key
func (l *MemoryRateLimiter) Admit(_ context.Context, key string, maxRequests int, window time.Duration) RateLimitDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	rec, ok := l.records[key]
	if !ok || now.After(rec.resetAt) {
		rec = &windowRecord{count: 1, resetAt: now.Add(window)}
		l.records[key] = rec
		return RateLimitDecision{Allowed: true, Remaining: maxRequests - 1, ResetAt: rec.resetAt}
	}

	if rec.count >= maxRequests {
		return RateLimitDecision{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   rec.resetAt,
			Message:   retryMessage(rec.resetAt.Sub(now)),
		}
	}

	rec.count++
	return RateLimitDecision{Allowed: true, Remaining: maxRequests - rec.count, ResetAt: rec.resetAt}
}

// SetClock overrides the wall clock (used by tests)
func (l *MemoryRateLimiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// retryMessage renders the client-facing rejection text with the number
// of whole seconds until the window resets, rounded up.
func retryMessage(untilReset time.Duration) string {
	seconds := int(math.Ceil(untilReset.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", seconds)
}
