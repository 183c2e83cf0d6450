package repository

import (
	"context"
	"errors"
	"fmt"

	"thinkboard/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// noteDocument is the stored shape, field-compatible with Mongoose timestamps.
type noteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	CreatedAt primitive.DateTime `bson:"createdAt"`
	UpdatedAt primitive.DateTime `bson:"updatedAt"`
}

func (d *noteDocument) toModel() *model.Note {
	return &model.Note{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.Time().UTC(),
		UpdatedAt: d.UpdatedAt.Time().UTC(),
	}
}

type NotesRepo struct {
	MongoCollection *mongo.Collection
	clock           Clock
}

func GetNotesRepo(client *mongo.Client, dbName, collection string, clock Clock) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(dbName).Collection(collection),
		clock:           clock,
	}
}

// parseID maps ids that can never exist in the collection to ErrNoteNotFound.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNoteNotFound
	}
	return oid, nil
}

// ListNotes returns every note, newest first
func (r *NotesRepo) ListNotes(ctx context.Context) ([]model.Note, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.MongoCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []noteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]model.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, *docs[i].toModel())
	}
	return notes, nil
}

// GetNote retrieves a specific note
func (r *NotesRepo) GetNote(ctx context.Context, id string) (*model.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc noteDocument
	err = r.MongoCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find note %s: %w", id, err)
	}
	return doc.toModel(), nil
}

// CreateNote validates and inserts a new note
func (r *NotesRepo) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	now := primitive.NewDateTimeFromTime(r.clock.now())
	doc := noteDocument{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.MongoCollection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return doc.toModel(), nil
}

// UpdateNote replaces title and content in a single atomic round trip. The pipeline bumps
// updatedAt past its stored value when the clock has not moved on; user text goes through
// $literal so a leading "$" is not read as a field path.
func (r *NotesRepo) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	now := primitive.NewDateTimeFromTime(r.clock.now())
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "title", Value: bson.D{{Key: "$literal", Value: title}}},
			{Key: "content", Value: bson.D{{Key: "$literal", Value: content}}},
			{Key: "updatedAt", Value: bson.D{{Key: "$max", Value: bson.A{
				now,
				bson.D{{Key: "$add", Value: bson.A{"$updatedAt", 1}}},
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc noteDocument
	err = r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note %s: %w", id, err)
	}
	return doc.toModel(), nil
}

// DeleteNote removes a note and returns its last state
func (r *NotesRepo) DeleteNote(ctx context.Context, id string) (*model.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc noteDocument
	err = r.MongoCollection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete note %s: %w", id, err)
	}
	return doc.toModel(), nil
}

func (r *NotesRepo) Ping(ctx context.Context) error {
	return r.MongoCollection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *NotesRepo) Close(ctx context.Context) error {
	return r.MongoCollection.Database().Client().Disconnect(ctx)
}
