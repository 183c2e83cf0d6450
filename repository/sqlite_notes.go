package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"thinkboard/model"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

// SQLiteNotesRepo stores notes in a single table. Timestamps are unix milliseconds.
type SQLiteNotesRepo struct {
	conn  *sql.DB
	clock Clock
}

func NewSQLiteNotesRepo(ctx context.Context, path string, clock Clock) (*SQLiteNotesRepo, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &SQLiteNotesRepo{conn: conn, clock: clock}
	if err := r.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteNotesRepo) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL CHECK (title <> ''),
			content TEXT NOT NULL CHECK (content <> ''),
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS notes_created_desc ON notes (created_at DESC, id DESC)`,
	}

	for _, q := range queries {
		if _, err := r.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*model.Note, error) {
	var (
		n                    model.Note
		createdAt, updatedAt int64
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	n.CreatedAt = time.UnixMilli(createdAt).UTC()
	n.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &n, nil
}

const selectNote = `SELECT id, title, content, created_at, updated_at FROM notes`

func (r *SQLiteNotesRepo) ListNotes(ctx context.Context) ([]model.Note, error) {
	rows, err := r.conn.QueryContext(ctx, selectNote+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *SQLiteNotesRepo) GetNote(ctx context.Context, id string) (*model.Note, error) {
	n, err := scanNote(r.conn.QueryRowContext(ctx, selectNote+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}
	return n, nil
}

func (r *SQLiteNotesRepo) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate note id: %w", err)
	}

	now := r.clock.now()
	n := &model.Note{
		ID:        id.String(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (r *SQLiteNotesRepo) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	n, err := scanNote(tx.QueryRowContext(ctx, selectNote+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}

	n.Title = title
	n.Content = content
	n.UpdatedAt = nextUpdatedAt(r.clock.now(), n.UpdatedAt)

	_, err = tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		n.Title, n.Content, n.UpdatedAt.UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return n, nil
}

func (r *SQLiteNotesRepo) DeleteNote(ctx context.Context, id string) (*model.Note, error) {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	n, err := scanNote(tx.QueryRowContext(ctx, selectNote+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete note %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return n, nil
}

func (r *SQLiteNotesRepo) Ping(ctx context.Context) error {
	return r.conn.PingContext(ctx)
}

func (r *SQLiteNotesRepo) Close(_ context.Context) error {
	return r.conn.Close()
}
