package api

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("admits up to the limit then rejects", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()
		const maxRequests = 10

		for i := 0; i < maxRequests; i++ {
			d := limiter.Admit(ctx, "user:alice", maxRequests, time.Minute)
			assert.True(t, d.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, maxRequests-i-1, d.Remaining)
		}

		d := limiter.Admit(ctx, "user:alice", maxRequests, time.Minute)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
		assert.Contains(t, d.Message, "Rate limit exceeded")
	})

	t.Run("rejection message contains positive seconds until reset", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()
		base := time.Now()
		limiter.SetClock(func() time.Time { return base })

		limiter.Admit(ctx, "k", 1, time.Minute)
		d := limiter.Admit(ctx, "k", 1, time.Minute)
		require.False(t, d.Allowed)
		assert.Equal(t, "Rate limit exceeded. Try again in 60 seconds", d.Message)

		// Partway through the window the hint rounds up
		limiter.SetClock(func() time.Time { return base.Add(30500 * time.Millisecond) })
		d = limiter.Admit(ctx, "k", 1, time.Minute)
		require.False(t, d.Allowed)
		assert.Equal(t, "Rate limit exceeded. Try again in 30 seconds", d.Message)
	})

	t.Run("fresh window after expiry", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()
		base := time.Now()
		limiter.SetClock(func() time.Time { return base })

		limiter.Admit(ctx, "k", 2, time.Minute)
		limiter.Admit(ctx, "k", 2, time.Minute)
		d := limiter.Admit(ctx, "k", 2, time.Minute)
		require.False(t, d.Allowed)

		limiter.SetClock(func() time.Time { return base.Add(time.Minute + time.Second) })
		d = limiter.Admit(ctx, "k", 2, time.Minute)
		assert.True(t, d.Allowed)
		assert.Equal(t, 1, d.Remaining)
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewMemoryRateLimiter()

		d := limiter.Admit(ctx, "user:a", 1, time.Minute)
		assert.True(t, d.Allowed)
		d = limiter.Admit(ctx, "user:a", 1, time.Minute)
		assert.False(t, d.Allowed)

		d = limiter.Admit(ctx, "user:b", 1, time.Minute)
		assert.True(t, d.Allowed)
	})
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return client, mr
}

func TestRedisRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("admits up to the limit then rejects", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer mr.Close()
		defer func() { _ = client.Close() }()

		limiter := NewRedisRateLimiter(client)

		for i := 0; i < 3; i++ {
			d := limiter.Admit(ctx, "user:alice", 3, time.Minute)
			require.True(t, d.Allowed, "request %d should be allowed", i+1)
		}

		d := limiter.Admit(ctx, "user:alice", 3, time.Minute)
		assert.False(t, d.Allowed)
		assert.Contains(t, d.Message, "Rate limit exceeded")
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer mr.Close()
		defer func() { _ = client.Close() }()

		limiter := NewRedisRateLimiter(client)

		limiter.Admit(ctx, "k", 1, time.Minute)
		d := limiter.Admit(ctx, "k", 1, time.Minute)
		require.False(t, d.Allowed)

		// miniredis advances TTLs without touching the wall clock
		mr.FastForward(time.Minute + time.Second)

		d = limiter.Admit(ctx, "k", 1, time.Minute)
		assert.True(t, d.Allowed)
	})

	t.Run("fails open with a message on backend error", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		mr.Close()
		defer func() { _ = client.Close() }()

		limiter := NewRedisRateLimiter(client)
		d := limiter.Admit(ctx, "k", 1, time.Minute)
		assert.True(t, d.Allowed)
		assert.NotEmpty(t, d.Message)
	})
}

func TestRetryMessage(t *testing.T) {
	tests := []struct {
		until time.Duration
		want  string
	}{
		{59 * time.Second, "Rate limit exceeded. Try again in 59 seconds"},
		{500 * time.Millisecond, "Rate limit exceeded. Try again in 1 seconds"},
		{-time.Second, "Rate limit exceeded. Try again in 1 seconds"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s", tc.until), func(t *testing.T) {
			assert.Equal(t, tc.want, retryMessage(tc.until))
		})
	}
}
