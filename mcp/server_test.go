package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"thinkboard/model"
	"thinkboard/repository"
	"thinkboard/usecase"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *usecase.NotesService {
	return usecase.NewNotesService(repository.NewMemoryNotesRepo(nil), nil)
}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func decodeNote(t *testing.T, res *mcp.CallToolResult) model.Note {
	t.Helper()
	require.False(t, res.IsError, text(t, res))
	var n model.Note
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &n))
	return n
}

func TestNoteTools(t *testing.T) {
	svc := newService()

	created := decodeNote(t, call(t, handleCreateNote(svc), map[string]any{
		"title":   "Groceries",
		"content": "eggs, milk",
	}))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Groceries", created.Title)

	got := decodeNote(t, call(t, handleGetNote(svc), map[string]any{"id": created.ID}))
	assert.Equal(t, created.ID, got.ID)

	updated := decodeNote(t, call(t, handleUpdateNote(svc), map[string]any{
		"id":      created.ID,
		"title":   "Groceries",
		"content": "eggs, milk, bread",
	}))
	assert.Equal(t, "eggs, milk, bread", updated.Content)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	res := call(t, handleListNotes(svc), nil)
	require.False(t, res.IsError)
	var list []model.Note
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &list))
	require.Len(t, list, 1)

	deleted := decodeNote(t, call(t, handleDeleteNote(svc), map[string]any{"id": created.ID}))
	assert.Equal(t, created.ID, deleted.ID)

	res = call(t, handleGetNote(svc), map[string]any{"id": created.ID})
	assert.True(t, res.IsError)
	assert.Equal(t, "note not found", text(t, res))
}

func TestCreateNoteToolRejectsEmptyFields(t *testing.T) {
	svc := newService()

	res := call(t, handleCreateNote(svc), map[string]any{"title": "only a title"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "content")

	list, err := svc.ListNotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToolsRequireID(t *testing.T) {
	svc := newService()

	for name, h := range map[string]server.ToolHandlerFunc{
		"get":    handleGetNote(svc),
		"update": handleUpdateNote(svc),
		"delete": handleDeleteNote(svc),
	} {
		t.Run(name, func(t *testing.T) {
			res := call(t, h, map[string]any{})
			assert.True(t, res.IsError)
			assert.Equal(t, "id is required", text(t, res))
		})
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(newService(), "test")

	tools := s.ListTools()
	for _, name := range []string{"list_notes", "get_note", "create_note", "update_note", "delete_note"} {
		assert.Contains(t, tools, name)
	}
}
