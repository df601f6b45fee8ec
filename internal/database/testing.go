package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// TestConfigEnv names the environment variable pointing at a config
// file for integration tests. Tests that need a live database skip
// when it is unset.
const TestConfigEnv = "GRIDIRON_EDGE_TEST_CONFIG"

// SetupTestDB creates a test database connection with the schema
// applied, skipping the test when no test database is configured
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("integration test: set %s to a config file with test database credentials", TestConfigEnv)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema to test database: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
