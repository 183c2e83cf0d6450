package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryRateLimiter is a per-process token bucket: capacity limit, refilled at limit per
// window. It only bounds a single server instance.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   int
	every   rate.Limit
	now     func() time.Time
}

func NewMemoryRateLimiter(limit int, window time.Duration, now func() time.Time) *MemoryRateLimiter {
	if now == nil {
		now = time.Now
	}
	return &MemoryRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		every:   rate.Every(window / time.Duration(limit)),
		now:     now,
	}
}

func (l *MemoryRateLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.every, l.limit)
		l.buckets[key] = b
	}
	return b
}

func (l *MemoryRateLimiter) Limit(_ context.Context, key string) (RateLimitResult, error) {
	b := l.bucket(key)
	now := l.now()

	allowed := b.AllowN(now, 1)
	tokens := b.TokensAt(now)

	result := RateLimitResult{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: max(int(tokens), 0),
	}
	if tokens < 1 {
		result.Reset = now.Add(time.Duration((1 - tokens) / float64(l.every) * float64(time.Second)))
	} else {
		result.Reset = now
	}
	return result, nil
}
