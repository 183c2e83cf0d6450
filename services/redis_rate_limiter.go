package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript approximates a sliding window from two fixed windows: the previous
// window's count is weighted by how much of it still overlaps the sliding window. Returns the
// remaining capacity after admitting, or -1 when the request is rejected.
var slidingWindowScript = redis.NewScript(`
local current_key  = KEYS[1]
local previous_key = KEYS[2]
local limit        = tonumber(ARGV[1])
local now          = tonumber(ARGV[2])
local window       = tonumber(ARGV[3])

local current  = tonumber(redis.call("GET", current_key) or "0")
local previous = tonumber(redis.call("GET", previous_key) or "0")

local elapsed  = now % window
local weighted = math.floor(previous * (window - elapsed) / window) + current
if weighted >= limit then
  return -1
end

current = redis.call("INCR", current_key)
if current == 1 then
  redis.call("PEXPIRE", current_key, window * 2 + 1000)
end
return limit - (weighted + 1)
`)

// RedisRateLimiter shares its counters through Redis so every server process draws from the
// same bucket.
type RedisRateLimiter struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.Scripter, prefix string, limit int, window time.Duration, now func() time.Time) *RedisRateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    now,
	}
}

func (l *RedisRateLimiter) Limit(ctx context.Context, key string) (RateLimitResult, error) {
	nowMs := l.now().UnixMilli()
	windowMs := l.window.Milliseconds()
	bucket := nowMs / windowMs

	keys := []string{
		l.windowKey(key, bucket),
		l.windowKey(key, bucket-1),
	}

	remaining, err := slidingWindowScript.Run(ctx, l.client, keys, l.limit, nowMs, windowMs).Int64()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit %q: %w", key, err)
	}

	result := RateLimitResult{
		Allowed: remaining >= 0,
		Limit:   l.limit,
		Reset:   time.UnixMilli((bucket + 1) * windowMs),
	}
	if result.Allowed {
		result.Remaining = int(remaining)
	}
	return result, nil
}

func (l *RedisRateLimiter) windowKey(key string, bucket int64) string {
	return l.prefix + ":" + key + ":" + strconv.FormatInt(bucket, 10)
}
