package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thinkboard/config"
	"thinkboard/handler"
	mcpserver "thinkboard/mcp"
	"thinkboard/repository"
	"thinkboard/services"
	"thinkboard/usecase"
	"thinkboard/utils"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitValidator()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	store, err := repository.OpenStore(ctx, cfg.Database, nil)
	cancel()
	if err != nil {
		logger.Error("failed to connect to note store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("note store connected", "driver", cfg.Database.Driver)

	limiter, closeLimiter, err := newLimiter(cfg.RateLimit, logger)
	if err != nil {
		logger.Error("failed to set up rate limiter", "backend", cfg.RateLimit.Backend, "error", err)
		os.Exit(1)
	}

	notes := usecase.NewNotesService(store, logger)

	deps := handler.RouterDeps{
		Server:    cfg.Server,
		RateLimit: cfg.RateLimit,
		Store:     store,
		Notes:     notes,
		Limiter:   limiter,
		Logger:    logger,
	}
	if cfg.MCP.Enabled {
		deps.MCP = server.NewStreamableHTTPServer(mcpserver.NewServer(notes, version))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.SetupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"env", cfg.Server.Env,
			"rate_limit", cfg.RateLimit.Enabled,
			"mcp", cfg.MCP.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := closeLimiter(); err != nil {
		logger.Warn("error closing rate limiter", "error", err)
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warn("error closing note store", "error", err)
	}

	logger.Info("server stopped")
}

// newLimiter returns nil when rate limiting is disabled.
func newLimiter(cfg config.RateLimitConfig, logger *slog.Logger) (services.RateLimiter, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		logger.Warn("rate limiting disabled")
		return nil, noop, nil
	}

	switch cfg.Backend {
	case config.LimiterRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		client, err := services.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return services.NewRedisRateLimiter(client, cfg.Prefix, cfg.Requests, cfg.Window, nil), client.Close, nil
	default:
		return services.NewMemoryRateLimiter(cfg.Requests, cfg.Window, nil), noop, nil
	}
}
