package handler

import (
	"context"
	"log/slog"
	"time"

	"thinkboard/repository"
	"thinkboard/utils"

	"github.com/gin-gonic/gin"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	store   repository.NoteStore
	logger  *slog.Logger
	started time.Time
}

type HealthResponse struct {
	Status string            `json:"status"`
	Store  string            `json:"store"`
	Uptime string            `json:"uptime"`
	System utils.SystemStats `json:"system"`
}

func NewHealthHandler(store repository.NoteStore, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger, started: time.Now()}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		utils.ServiceUnavailable(c, "Store unavailable")
		return
	}

	utils.Success(c, HealthResponse{
		Status: "ok",
		Store:  "up",
		Uptime: time.Since(h.started).Round(time.Second).String(),
		System: utils.GetSystemStats(),
	})
}
