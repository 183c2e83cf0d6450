package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"thinkboard/test/testutils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// windowStart is aligned to a one-minute boundary.
var windowStart = time.UnixMilli(1_700_000_040_000)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	return m, client
}

func TestRedisRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("RejectsOnceQuotaIsUsed", func(t *testing.T) {
		_, client := newTestRedis(t)
		clock := testutils.NewFakeClock(windowStart)
		limiter := NewRedisRateLimiter(client, "ratelimit", 3, time.Minute, clock.Now)

		for i, want := range []int{2, 1, 0} {
			res, err := limiter.Limit(ctx, "my-limit-key")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d", i)
			assert.Equal(t, want, res.Remaining)
			assert.Equal(t, 3, res.Limit)
		}

		res, err := limiter.Limit(ctx, "my-limit-key")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
		assert.True(t, res.Reset.Equal(windowStart.Add(time.Minute)))
		assert.Equal(t, time.Minute, res.RetryAfter(clock.Now()))
	})

	t.Run("RejectedRequestsDoNotConsume", func(t *testing.T) {
		m, client := newTestRedis(t)
		clock := testutils.NewFakeClock(windowStart)
		limiter := NewRedisRateLimiter(client, "rl", 2, time.Minute, clock.Now)

		for i := 0; i < 5; i++ {
			_, err := limiter.Limit(ctx, "k")
			require.NoError(t, err)
		}

		key := fmt.Sprintf("rl:k:%d", windowStart.UnixMilli()/time.Minute.Milliseconds())
		got, err := m.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "2", got)
		assert.Greater(t, m.TTL(key), time.Duration(0))
	})

	t.Run("RecoversAsWindowSlides", func(t *testing.T) {
		_, client := newTestRedis(t)
		clock := testutils.NewFakeClock(windowStart)
		limiter := NewRedisRateLimiter(client, "ratelimit", 3, time.Minute, clock.Now)

		for i := 0; i < 3; i++ {
			_, err := limiter.Limit(ctx, "shared")
			require.NoError(t, err)
		}

		// Still fully weighted at the start of the next window.
		clock.Advance(time.Minute)
		res, err := limiter.Limit(ctx, "shared")
		require.NoError(t, err)
		assert.False(t, res.Allowed)

		// Halfway through, half of the previous window still counts.
		clock.Advance(30 * time.Second)
		res, err = limiter.Limit(ctx, "shared")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1, res.Remaining)

		// Two idle windows later the whole quota is back.
		clock.Advance(150 * time.Second)
		for i := 0; i < 3; i++ {
			res, err = limiter.Limit(ctx, "shared")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d", i)
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		_, client := newTestRedis(t)
		clock := testutils.NewFakeClock(windowStart)
		limiter := NewRedisRateLimiter(client, "ratelimit", 1, time.Minute, clock.Now)

		res, err := limiter.Limit(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)

		res, err = limiter.Limit(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, res.Allowed)

		res, err = limiter.Limit(ctx, "10.0.0.2")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("BackendFailureIsAnError", func(t *testing.T) {
		m, err := miniredis.Run()
		require.NoError(t, err)
		client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
		defer client.Close()
		m.Close()

		limiter := NewRedisRateLimiter(client, "ratelimit", 3, time.Minute, nil)

		_, err = limiter.Limit(ctx, "my-limit-key")
		assert.Error(t, err)
	})
}

func TestMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("BucketEmptiesAndRefills", func(t *testing.T) {
		clock := testutils.NewFakeClock(windowStart)
		limiter := NewMemoryRateLimiter(3, time.Minute, clock.Now)

		for i := 0; i < 3; i++ {
			res, err := limiter.Limit(ctx, "my-limit-key")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d", i)
		}

		res, err := limiter.Limit(ctx, "my-limit-key")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, 0, res.Remaining)
		assert.InDelta(t, float64(20*time.Second), float64(res.RetryAfter(clock.Now())), float64(time.Millisecond))

		clock.Advance(20 * time.Second)
		res, err = limiter.Limit(ctx, "my-limit-key")
		require.NoError(t, err)
		assert.True(t, res.Allowed)

		clock.Advance(time.Minute)
		for i := 0; i < 3; i++ {
			res, err = limiter.Limit(ctx, "my-limit-key")
			require.NoError(t, err)
			assert.True(t, res.Allowed, "request %d after refill", i)
		}
		res, err = limiter.Limit(ctx, "my-limit-key")
		require.NoError(t, err)
		assert.False(t, res.Allowed, "burst is capped at the limit")
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		clock := testutils.NewFakeClock(windowStart)
		limiter := NewMemoryRateLimiter(1, time.Minute, clock.Now)

		res, _ := limiter.Limit(ctx, "a")
		assert.True(t, res.Allowed)
		res, _ = limiter.Limit(ctx, "a")
		assert.False(t, res.Allowed)
		res, _ = limiter.Limit(ctx, "b")
		assert.True(t, res.Allowed)
	})
}

func TestRateLimitResultRetryAfter(t *testing.T) {
	now := windowStart
	assert.Zero(t, RateLimitResult{Allowed: true, Reset: now.Add(time.Minute)}.RetryAfter(now))
	assert.Zero(t, RateLimitResult{Allowed: false, Reset: now.Add(-time.Second)}.RetryAfter(now))
	assert.Equal(t, 5*time.Second, RateLimitResult{Allowed: false, Reset: now.Add(5 * time.Second)}.RetryAfter(now))
}
