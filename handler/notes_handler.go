package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"thinkboard/dto"
	"thinkboard/middleware"
	"thinkboard/model"
	"thinkboard/repository"
	"thinkboard/usecase"
	"thinkboard/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	notes  *usecase.NotesService
	logger *slog.Logger
}

func NewNoteHandler(notes *usecase.NotesService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.notes.ListNotes(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err)
		return
	}
	utils.Success(c, notes)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	note, err := h.notes.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	utils.Success(c, note)
}

func (h *NoteHandler) CreateNote(c *gin.Context) {
	req, ok := h.bindNote(c)
	if !ok {
		return
	}

	note, err := h.notes.CreateNote(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	utils.Created(c, note)
}

func (h *NoteHandler) UpdateNote(c *gin.Context) {
	req, ok := h.bindNote(c)
	if !ok {
		return
	}

	note, err := h.notes.UpdateNote(c.Request.Context(), c.Param("id"), req.Title, req.Content)
	if err != nil {
		h.fail(c, "update", err)
		return
	}
	utils.Success(c, note)
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	note, err := h.notes.DeleteNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "delete", err)
		return
	}
	utils.Success(c, note)
}

// bindNote decodes the request body. An empty body is treated as an empty object
// so that it fails validation rather than parsing.
func (h *NoteHandler) bindNote(c *gin.Context) (dto.NoteRequest, bool) {
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RequestTooLarge(c, "Request body too large")
			return req, false
		}
		utils.BadRequest(c, "Invalid request body")
		return req, false
	}
	return req, true
}

func (h *NoteHandler) fail(c *gin.Context, op string, err error) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, repository.ErrNoteNotFound):
		utils.NotFound(c, "Note not found")
	case errors.As(err, &verr):
		// Rejected input shares the internal error response.
		middleware.TrackError("validation")
		h.logger.Warn("note validation failed",
			"operation", op,
			"fields", verr.Fields,
			"request_id", middleware.RequestID(c),
		)
		utils.InternalError(c, "Internal server error")
	default:
		middleware.TrackError("store")
		h.logger.Error("note operation failed",
			"operation", op,
			"error", err,
			"request_id", middleware.RequestID(c),
		)
		utils.InternalError(c, "Internal server error")
	}
}
