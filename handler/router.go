package handler

import (
	"log/slog"
	"net/http"

	"thinkboard/config"
	"thinkboard/middleware"
	"thinkboard/repository"
	"thinkboard/services"
	"thinkboard/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Server    config.ServerConfig
	RateLimit config.RateLimitConfig
	Store     repository.NoteStore
	Notes     *usecase.NotesService
	// Limiter may be nil when rate limiting is disabled.
	Limiter services.RateLimiter
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// KeyFuncFor selects the limiter bucket strategy from configuration.
func KeyFuncFor(cfg config.RateLimitConfig) middleware.KeyFunc {
	if cfg.KeyStrategy == config.KeyStrategyClientIP {
		return middleware.ClientIPKey(cfg.Key)
	}
	return middleware.FixedKey(cfg.Key)
}

func SetupRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(
		middleware.EnhancedRecoveryMiddleware(deps.Logger),
		middleware.RequestTracingMiddleware(),
		middleware.RequestLogger(deps.Logger),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(deps.Server.AllowedOrigin),
		middleware.RequestSizeLimiter(deps.Server.MaxBodyBytes),
	)

	// Operator endpoints are not rate limited.
	health := NewHealthHandler(deps.Store, deps.Logger)
	router.GET("/health", health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var gate []gin.HandlerFunc
	if deps.Limiter != nil {
		gate = append(gate, middleware.RateLimitMiddleware(deps.Limiter, KeyFuncFor(deps.RateLimit), deps.Logger))
	}

	notes := NewNoteHandler(deps.Notes, deps.Logger)
	api := router.Group("/api/notes", gate...)
	api.Use(middleware.CacheControlMiddleware("no-store"))
	{
		for _, root := range []string{"", "/"} {
			api.GET(root, notes.ListNotes)
			api.POST(root, notes.CreateNote)
		}
		api.GET("/:id", notes.GetNote)
		api.PUT("/:id", notes.UpdateNote)
		api.DELETE("/:id", notes.DeleteNote)
	}

	if deps.MCP != nil {
		mcp := router.Group("/mcp", gate...)
		h := gin.WrapH(deps.MCP)
		mcp.POST("", h)
		mcp.GET("", h)
		mcp.DELETE("", h)
	}

	return router
}
