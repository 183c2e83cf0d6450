package services

import (
	"context"
	"time"
)

// RateLimitResult is the outcome of one admission check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is when the caller can expect capacity again.
	Reset time.Time
}

// RetryAfter is the wait before the next attempt can succeed, never negative.
func (r RateLimitResult) RetryAfter(now time.Time) time.Duration {
	if r.Allowed {
		return 0
	}
	d := r.Reset.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// RateLimiter admits or rejects one request for key. An error means the limiter could not
// decide; callers must not treat it as either outcome.
type RateLimiter interface {
	Limit(ctx context.Context, key string) (RateLimitResult, error)
}
