package usecase

import (
	"context"
	"errors"
	"log/slog"

	"thinkboard/middleware"
	"thinkboard/model"
	"thinkboard/repository"
)

// NotesService is shared by the HTTP handlers and the MCP tools.
type NotesService struct {
	Store  repository.NoteStore
	Logger *slog.Logger
}

func NewNotesService(store repository.NoteStore, logger *slog.Logger) *NotesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotesService{Store: store, Logger: logger}
}

func (s *NotesService) ListNotes(ctx context.Context) ([]model.Note, error) {
	timer := middleware.TrackStoreOperation("list")
	notes, err := s.Store.ListNotes(ctx)
	timer.ObserveDuration()

	s.record(ctx, "list", err)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NotesService) GetNote(ctx context.Context, id string) (*model.Note, error) {
	timer := middleware.TrackStoreOperation("get")
	note, err := s.Store.GetNote(ctx, id)
	timer.ObserveDuration()

	s.record(ctx, "get", err, "note_id", id)
	return note, err
}

func (s *NotesService) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	timer := middleware.TrackStoreOperation("create")
	note, err := s.Store.CreateNote(ctx, title, content)
	timer.ObserveDuration()

	if err == nil {
		s.record(ctx, "create", nil, "note_id", note.ID)
	} else {
		s.record(ctx, "create", err)
	}
	return note, err
}

func (s *NotesService) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	timer := middleware.TrackStoreOperation("update")
	note, err := s.Store.UpdateNote(ctx, id, title, content)
	timer.ObserveDuration()

	s.record(ctx, "update", err, "note_id", id)
	return note, err
}

func (s *NotesService) DeleteNote(ctx context.Context, id string) (*model.Note, error) {
	timer := middleware.TrackStoreOperation("delete")
	note, err := s.Store.DeleteNote(ctx, id)
	timer.ObserveDuration()

	s.record(ctx, "delete", err, "note_id", id)
	return note, err
}

// Outcome maps a store error onto the label used in metrics.
func Outcome(err error) string {
	var verr *model.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNoteNotFound):
		return "not_found"
	case errors.As(err, &verr):
		return "invalid"
	default:
		return "error"
	}
}

func (s *NotesService) record(ctx context.Context, op string, err error, attrs ...any) {
	outcome := Outcome(err)
	middleware.TrackNoteOperation(op, outcome)

	attrs = append(attrs, "operation", op, "outcome", outcome)
	switch outcome {
	case "ok", "not_found":
		s.Logger.DebugContext(ctx, "note operation", attrs...)
	case "invalid":
		s.Logger.WarnContext(ctx, "note operation rejected", append(attrs, "error", err)...)
	default:
		s.Logger.ErrorContext(ctx, "note operation failed", append(attrs, "error", err)...)
	}
}
