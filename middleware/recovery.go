package middleware

import (
	"log/slog"
	"runtime/debug"

	"thinkboard/utils"

	"github.com/gin-gonic/gin"
)

// EnhancedRecoveryMiddleware turns a handler panic into the generic 500 and keeps the
// process serving.
func EnhancedRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				TrackError("panic")
				logger.Error("panic recovered",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", RequestID(c),
					"stack", string(debug.Stack()),
				)
				utils.InternalError(c, "Internal server error")
			}
		}()
		c.Next()
	}
}
