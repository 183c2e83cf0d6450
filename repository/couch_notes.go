package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"thinkboard/model"

	"github.com/go-kivik/kivik/v4"
	_ "github.com/go-kivik/kivik/v4/couchdb"
	"github.com/google/uuid"
)

const couchNoteType = "note"

type couchNoteDocument struct {
	ID        string    `json:"_id"`
	Rev       string    `json:"_rev,omitempty"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *couchNoteDocument) toModel() *model.Note {
	return &model.Note{
		ID:        strings.TrimPrefix(d.ID, couchNoteType+":"),
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// CouchNotesRepo keeps each note as a "note:<id>" document. Updates carry the current
// revision, so a concurrent writer surfaces as a conflict error instead of a lost update.
type CouchNotesRepo struct {
	client *kivik.Client
	db     *kivik.DB
	clock  Clock
}

func NewCouchNotesRepo(ctx context.Context, url, dbName string, clock Clock) (*CouchNotesRepo, error) {
	client, err := kivik.New("couch", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	exists, err := client.DBExists(ctx, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to check database existence: %w", err)
	}
	if !exists {
		if err := client.CreateDB(ctx, dbName); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	return &CouchNotesRepo{
		client: client,
		db:     client.DB(dbName),
		clock:  clock,
	}, nil
}

func couchDocID(id string) string {
	return couchNoteType + ":" + id
}

func (r *CouchNotesRepo) fetch(ctx context.Context, id string) (*couchNoteDocument, error) {
	var doc couchNoteDocument
	if err := r.db.Get(ctx, couchDocID(id)).ScanDoc(&doc); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}
	return &doc, nil
}

// ListNotes walks _all_docs rather than a Mango query, which would cap results at its
// default page size.
func (r *CouchNotesRepo) ListNotes(ctx context.Context) ([]model.Note, error) {
	rows := r.db.AllDocs(ctx, kivik.Param("include_docs", true))
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		id, err := rows.ID()
		if err != nil {
			return nil, fmt.Errorf("read row id: %w", err)
		}
		if !strings.HasPrefix(id, couchNoteType+":") {
			continue
		}

		var doc couchNoteDocument
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if doc.Type != couchNoteType {
			continue
		}
		notes = append(notes, *doc.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	sortNewestFirst(notes)
	return notes, nil
}

func (r *CouchNotesRepo) GetNote(ctx context.Context, id string) (*model.Note, error) {
	doc, err := r.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *CouchNotesRepo) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate note id: %w", err)
	}

	now := r.clock.now()
	doc := couchNoteDocument{
		ID:        couchDocID(id.String()),
		Type:      couchNoteType,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return doc.toModel(), nil
}

func (r *CouchNotesRepo) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	doc, err := r.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	doc.Title = title
	doc.Content = content
	doc.UpdatedAt = nextUpdatedAt(r.clock.now(), doc.UpdatedAt.UTC())

	if _, err := r.db.Put(ctx, doc.ID, doc); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return doc.toModel(), nil
}

func (r *CouchNotesRepo) DeleteNote(ctx context.Context, id string) (*model.Note, error) {
	doc, err := r.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Delete(ctx, doc.ID, doc.Rev); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}
	return doc.toModel(), nil
}

func (r *CouchNotesRepo) Ping(ctx context.Context) error {
	ok, err := r.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping couchdb: %w", err)
	}
	if !ok {
		return fmt.Errorf("ping couchdb: server not ready")
	}
	return nil
}

func (r *CouchNotesRepo) Close(_ context.Context) error {
	return r.client.Close()
}
