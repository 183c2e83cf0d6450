package repository

import (
	"context"
	"fmt"
	"sync"

	"thinkboard/model"

	"github.com/google/uuid"
)

// MemoryNotesRepo keeps notes in process memory. It backs tests and STORE_DRIVER=memory.
type MemoryNotesRepo struct {
	mu    sync.RWMutex
	notes map[string]model.Note
	clock Clock
}

func NewMemoryNotesRepo(clock Clock) *MemoryNotesRepo {
	return &MemoryNotesRepo{
		notes: make(map[string]model.Note),
		clock: clock,
	}
}

func (r *MemoryNotesRepo) ListNotes(_ context.Context) ([]model.Note, error) {
	r.mu.RLock()
	notes := make([]model.Note, 0, len(r.notes))
	for _, n := range r.notes {
		notes = append(notes, n)
	}
	r.mu.RUnlock()

	sortNewestFirst(notes)
	return notes, nil
}

func (r *MemoryNotesRepo) GetNote(_ context.Context, id string) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &n, nil
}

func (r *MemoryNotesRepo) CreateNote(_ context.Context, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate note id: %w", err)
	}

	now := r.clock.now()
	n := model.Note{
		ID:        id.String(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	r.notes[n.ID] = n
	r.mu.Unlock()

	return &n, nil
}

func (r *MemoryNotesRepo) UpdateNote(_ context.Context, id, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = nextUpdatedAt(r.clock.now(), n.UpdatedAt)
	r.notes[id] = n

	return &n, nil
}

func (r *MemoryNotesRepo) DeleteNote(_ context.Context, id string) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	delete(r.notes, id)

	return &n, nil
}

func (r *MemoryNotesRepo) Ping(_ context.Context) error { return nil }

func (r *MemoryNotesRepo) Close(_ context.Context) error { return nil }
