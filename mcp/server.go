package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"thinkboard/model"
	"thinkboard/repository"
	"thinkboard/usecase"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer exposes the notes service as MCP tools.
func NewServer(svc *usecase.NotesService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ThinkBoard",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List every note, newest first."),
		),
		handleListNotes(svc),
	)

	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a single note by its ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
		),
		handleGetNote(svc),
	)

	s.AddTool(
		mcp.NewTool("create_note",
			mcp.WithDescription("Create a note. Both title and content must be non-empty."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Note title"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Note body"),
			),
		),
		handleCreateNote(svc),
	)

	s.AddTool(
		mcp.NewTool("update_note",
			mcp.WithDescription("Replace the title and content of an existing note."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("New title"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("New body"),
			),
		),
		handleUpdateNote(svc),
	)

	s.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Permanently delete a note and return what was removed."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
		),
		handleDeleteNote(svc),
	)

	return s
}

func handleListNotes(svc *usecase.NotesService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		notes, err := svc.ListNotes(ctx)
		if err != nil {
			return toolError("failed to list notes", err), nil
		}
		return jsonResult(notes), nil
	}
}

func handleGetNote(svc *usecase.NotesService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.GetNote(ctx, id)
		if err != nil {
			return toolError("failed to get note", err), nil
		}
		return jsonResult(note), nil
	}
}

func handleCreateNote(svc *usecase.NotesService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := req.GetString("title", "")
		content := req.GetString("content", "")

		note, err := svc.CreateNote(ctx, title, content)
		if err != nil {
			return toolError("failed to create note", err), nil
		}
		return jsonResult(note), nil
	}
}

func handleUpdateNote(svc *usecase.NotesService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.UpdateNote(ctx, id, req.GetString("title", ""), req.GetString("content", ""))
		if err != nil {
			return toolError("failed to update note", err), nil
		}
		return jsonResult(note), nil
	}
}

func handleDeleteNote(svc *usecase.NotesService) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.DeleteNote(ctx, id)
		if err != nil {
			return toolError("failed to delete note", err), nil
		}
		return jsonResult(note), nil
	}
}

// toolError reports not-found and validation failures as they are. Anything else is
// already logged by the service and stays opaque.
func toolError(msg string, err error) *mcp.CallToolResult {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, repository.ErrNoteNotFound):
		return mcp.NewToolResultError("note not found")
	case errors.As(err, &verr):
		return mcp.NewToolResultError(verr.Error())
	default:
		return mcp.NewToolResultError(msg)
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}
