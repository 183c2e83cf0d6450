// Package testutils holds helpers shared by package tests: a controllable clock and
// connections to optional external services.
package testutils

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"thinkboard/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// FakeClock is a manually advanced clock safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SetupTestCollection connects to MONGO_TEST_URI and returns a uniquely named collection
// that is dropped when the test ends. The test is skipped when no server is configured.
func SetupTestCollection(t *testing.T) *mongo.Collection {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping MongoDB test")
	}

	client, err := utils.ConnectMongo(context.Background(), utils.MongoOptions{
		URI:            uri,
		MaxPoolSize:    10,
		RetryWrites:    true,
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := utils.GetEnvAsString("MONGO_TEST_DB", "thinkboard_test")
	name := "notes_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	coll := client.Database(dbName).Collection(name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := coll.Drop(ctx); err != nil {
			t.Logf("Warning: Failed to drop test collection %s: %v", name, err)
		}
		_ = client.Disconnect(ctx)
	})

	return coll
}

// CouchTestURL returns COUCHDB_TEST_URL or skips the test.
func CouchTestURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("COUCHDB_TEST_URL")
	if url == "" {
		t.Skip("COUCHDB_TEST_URL not set; skipping CouchDB test")
	}
	return url
}
