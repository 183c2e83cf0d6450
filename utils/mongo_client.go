package utils

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoOptions carries the pool settings read from the environment.
type MongoOptions struct {
	URI             string
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryWrites     bool
	ConnectTimeout  time.Duration
}

// ConnectMongo dials MongoDB and pings the primary so that an unreachable server is
// reported at startup rather than on the first request.
func ConnectMongo(ctx context.Context, o MongoOptions) (*mongo.Client, error) {
	if o.URI == "" {
		return nil, fmt.Errorf("mongo URI is not set")
	}

	clientOptions := options.Client().
		ApplyURI(o.URI).
		SetMaxPoolSize(o.MaxPoolSize).
		SetMinPoolSize(o.MinPoolSize).
		SetMaxConnIdleTime(o.MaxConnIdleTime).
		SetRetryWrites(o.RetryWrites)

	if o.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.ConnectTimeout)
		defer cancel()
		clientOptions.SetServerSelectionTimeout(o.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}
