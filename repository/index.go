package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the index that serves the newest-first listing.
func SetupIndexes(ctx context.Context, coll *mongo.Collection) error {
	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "createdAt", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().
				SetName("notes_created_desc"),
		},
	}

	if _, err := coll.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	slog.Debug("notes indexes ready", "collection", coll.Name())
	return nil
}
