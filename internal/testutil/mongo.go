package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/hubmatch-backend/internal/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// TestContext returns a context bounded for a single test.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// SetupTestDB connects to the MongoDB named by MONGO_TEST_URI and returns a
// fresh, indexed database that is dropped when the test ends. The test is
// skipped when MONGO_TEST_URI is not set.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := strings.TrimSpace(os.Getenv("MONGO_TEST_URI"))
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping MongoDB-backed test")
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("connect to test MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Fatalf("ping test MongoDB: %v", err)
	}

	name := "hubmatch_test_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	db := client.Database(name)
	if err := database.EnsureIndexes(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		cctx, ccancel := TestContext()
		defer ccancel()
		_ = db.Drop(cctx)
		_ = client.Disconnect(cctx)
	})
	return db
}
