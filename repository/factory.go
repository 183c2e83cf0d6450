package repository

import (
	"context"
	"fmt"

	"thinkboard/config"
	"thinkboard/utils"
)

// OpenStore connects the backend named by cfg.Driver. Callers treat any error as fatal.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, clock Clock) (NoteStore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := utils.ConnectMongo(ctx, utils.MongoOptions{
			URI:             cfg.URI,
			MaxPoolSize:     cfg.MaxPoolSize,
			MinPoolSize:     cfg.MinPoolSize,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
			RetryWrites:     cfg.RetryWrites,
			ConnectTimeout:  cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		repo := GetNotesRepo(client, cfg.DatabaseName, cfg.Collection, clock)
		if err := SetupIndexes(ctx, repo.MongoCollection); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return repo, nil
	case config.DriverSQLite:
		return NewSQLiteNotesRepo(ctx, cfg.SQLitePath, clock)
	case config.DriverCouchDB:
		return NewCouchNotesRepo(ctx, cfg.CouchURL, cfg.CouchName, clock)
	case config.DriverMemory:
		return NewMemoryNotesRepo(clock), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
