package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"thinkboard/model"
	"thinkboard/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(fmt.Errorf("get: %w", repository.ErrNoteNotFound)))
	assert.Equal(t, "invalid", Outcome(&model.ValidationError{Fields: []string{"title"}}))
	assert.Equal(t, "error", Outcome(errors.New("connection reset")))
}

func TestNotesServicePassesThroughStore(t *testing.T) {
	svc := NewNotesService(repository.NewMemoryNotesRepo(nil), nil)
	ctx := context.Background()

	created, err := svc.CreateNote(ctx, "A", "B")
	require.NoError(t, err)

	_, err = svc.CreateNote(ctx, "", "B")
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title"}, verr.Fields)

	notes, err := svc.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, created.ID, notes[0].ID)

	_, err = svc.DeleteNote(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.GetNote(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}
