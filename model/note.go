package model

import (
	"fmt"
	"strings"
	"time"
)

// Note is the single persisted entity. ID, CreatedAt and UpdatedAt are owned by the store.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ValidationError reports the note fields that failed schema validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "note validation failed"
	}
	return fmt.Sprintf("note validation failed: %s is required", strings.Join(e.Fields, ", "))
}
