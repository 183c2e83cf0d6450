package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"time"

	"thinkboard/services"
	"thinkboard/utils"

	"github.com/gin-gonic/gin"
)

const RateLimitedMessage = "Too many requests, please try again later."

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// FixedKey counts every caller against one shared bucket.
func FixedKey(key string) KeyFunc {
	return func(*gin.Context) string { return key }
}

// ClientIPKey gives each client address its own bucket under prefix.
func ClientIPKey(prefix string) KeyFunc {
	return func(c *gin.Context) string { return prefix + ":" + c.ClientIP() }
}

// RateLimitMiddleware consults the limiter before any handler runs. A rejected request gets
// 429 and a limiter failure gets the generic 500; neither reaches the handler.
func RateLimitMiddleware(limiter services.RateLimiter, keyFn KeyFunc, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		result, err := limiter.Limit(c.Request.Context(), key)
		if err != nil {
			TrackRateLimit("error")
			TrackError("rate_limiter")
			logger.Error("rate limit check failed",
				"error", err,
				"key", key,
				"request_id", RequestID(c),
			)
			utils.InternalError(c, "Internal server error")
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))

		if !result.Allowed {
			TrackRateLimit("rejected")
			retry := result.RetryAfter(time.Now())
			h.Set("Retry-After", strconv.Itoa(max(int(math.Ceil(retry.Seconds())), 1)))
			logger.Debug("request rate limited", "key", key, "request_id", RequestID(c))
			utils.TooManyRequests(c, RateLimitedMessage)
			return
		}

		TrackRateLimit("allowed")
		c.Next()
	}
}
