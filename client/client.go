// Package client is a typed HTTP client for the notes API. It is what the notesctl
// command line front end talks to.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"thinkboard/dto"
	"thinkboard/model"
)

var (
	ErrNotFound    = errors.New("note not found")
	ErrRateLimited = errors.New("rate limited")
)

// APIError is any non-success response that is neither a 404 nor a 429.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notes api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("notes api: %d %s", e.StatusCode, e.Message)
}

// RateLimitError wraps ErrRateLimited with the server's Retry-After hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:5001.
// A nil httpClient gets a default with a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

func (c *Client) GetNote(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note
	if err := c.do(ctx, http.MethodGet, notePath(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	var note model.Note
	body := dto.NoteRequest{Title: title, Content: content}
	if err := c.do(ctx, http.MethodPost, "/api/notes", body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	var note model.Note
	body := dto.NoteRequest{Title: title, Content: content}
	if err := c.do(ctx, http.MethodPut, notePath(id), body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote returns the note as it was before removal.
func (c *Client) DeleteNote(ctx context.Context, id string) (*model.Note, error) {
	var note model.Note
	if err := c.do(ctx, http.MethodDelete, notePath(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func notePath(id string) string {
	return "/api/notes/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	}

	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope)
	return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
