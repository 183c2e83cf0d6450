package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"thinkboard/model"
	"thinkboard/utils"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteStore is the durable collection of notes. Absence is reported as ErrNoteNotFound,
// schema violations as *model.ValidationError.
type NoteStore interface {
	ListNotes(ctx context.Context) ([]model.Note, error)
	GetNote(ctx context.Context, id string) (*model.Note, error)
	CreateNote(ctx context.Context, title, content string) (*model.Note, error)
	UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) (*model.Note, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Clock returns the current time. Stores take one so tests can pin timestamps.
type Clock func() time.Time

// now truncates to the millisecond, the precision every backend can round-trip.
func (c Clock) now() time.Time {
	if c == nil {
		c = time.Now
	}
	return c().UTC().Truncate(time.Millisecond)
}

// nextUpdatedAt keeps updatedAt strictly increasing even when two writes share a millisecond.
func nextUpdatedAt(now, previous time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Millisecond)
}

func validateFields(title, content string) error {
	return utils.ValidateNote(&model.Note{Title: title, Content: content})
}

// sortNewestFirst orders by createdAt descending, breaking ties on id so that ids which sort
// by creation (UUIDv7, ObjectID) keep insertion order.
func sortNewestFirst(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID > notes[j].ID
	})
}
