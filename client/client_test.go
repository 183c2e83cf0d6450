package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thinkboard/config"
	"thinkboard/handler"
	"thinkboard/repository"
	"thinkboard/services"
	"thinkboard/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, limiter services.RateLimiter) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryNotesRepo(nil)
	router := handler.SetupRouter(handler.RouterDeps{
		Server: config.ServerConfig{
			AllowedOrigin: "http://localhost:5173",
			MaxBodyBytes:  1 << 20,
		},
		RateLimit: config.RateLimitConfig{KeyStrategy: config.KeyStrategyFixed, Key: "my-limit-key"},
		Store:     store,
		Notes:     usecase.NewNotesService(store, logger),
		Limiter:   limiter,
		Logger:    logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestServer(t, nil)
	ctx := context.Background()

	notes, err := c.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.NotNil(t, notes)

	created, err := c.CreateNote(ctx, "Title", "Body")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := c.GetNote(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title", got.Title)

	updated, err := c.UpdateNote(ctx, created.ID, "Title 2", "Body 2")
	require.NoError(t, err)
	assert.Equal(t, "Body 2", updated.Content)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	deleted, err := c.DeleteNote(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = c.GetNote(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientErrors(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		c := newTestServer(t, nil)

		_, err := c.CreateNote(context.Background(), "", "")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "got %v", err)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "Internal server error", apiErr.Message)
	})

	t.Run("RateLimited", func(t *testing.T) {
		frozen := time.Now()
		c := newTestServer(t, services.NewMemoryRateLimiter(1, time.Minute, func() time.Time { return frozen }))

		_, err := c.ListNotes(context.Background())
		require.NoError(t, err)

		_, err = c.ListNotes(context.Background())
		assert.ErrorIs(t, err, ErrRateLimited)
		var rlErr *RateLimitError
		require.True(t, errors.As(err, &rlErr))
		assert.GreaterOrEqual(t, rlErr.RetryAfter, time.Second)
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := New(srv.URL, nil).ListNotes(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrRateLimited)
	})
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 30*time.Second, parseRetryAfter("30"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
