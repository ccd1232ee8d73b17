// Package testutil holds the shared helpers for package tests: a throwaway
// MongoDB database, request builders, and the template engine.
package testutil

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/thedevbrian/folio/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// TestDBURI is the MongoDB used by tests. FOLIO_TEST_MONGO_URI overrides it.
var TestDBURI = envOr("FOLIO_TEST_MONGO_URI", "mongodb://localhost:27017")

// TestDBName prefixes every per-test database.
const TestDBName = "folio_test"

// maxDBName is MongoDB's database name limit.
const maxDBName = 63

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(TestDBURI).
			SetMaxPoolSize(200).
			SetServerSelectionTimeout(3 * time.Second)
		client, clientErr = mongo.Connect(ctx, opts)
		if clientErr == nil {
			clientErr = client.Ping(ctx, nil)
		}
	})
	return client, clientErr
}

// SetupTestDB returns an empty database named after the test, with the
// production indexes in place. Tests are skipped when MongoDB is not
// reachable. The database is dropped on cleanup.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Skipf("MongoDB not available at %s: %v", TestDBURI, err)
	}
	db := c.Database(dbNameFor(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop test database: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database on cleanup: %v", err)
		}
	})
	return db
}

// dbNameFor turns a test name into a valid, length-limited database name.
func dbNameFor(testName string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, testName)
	name := TestDBName + "_" + clean
	if len(name) > maxDBName {
		name = name[:maxDBName]
	}
	return name
}

// TestContext returns a context with a generous deadline for store calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
