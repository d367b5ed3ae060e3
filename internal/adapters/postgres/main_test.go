package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

var testDB *DB

// TestMain connects to TEST_DATABASE_URL. Without it every test in this
// package is skipped.
func TestMain(m *testing.M) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		fmt.Println("TEST_DATABASE_URL not set, skipping postgres tests")
		os.Exit(m.Run())
	}

	nopLogger := zerolog.Nop()
	ctx := context.Background()

	var err error
	testDB, err = NewDB(ctx, url, &nopLogger)
	if err != nil {
		fmt.Printf("TestMain: failed to connect to test database: %v\n", err)
		os.Exit(1)
	}
	if err := testDB.Migrate(ctx); err != nil {
		fmt.Printf("TestMain: failed to migrate: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) *DB {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return testDB
}

// cleanupAdmins empties the table after a test.
func cleanupAdmins(t *testing.T, db *DB) {
	t.Cleanup(func() {
		if _, err := db.pool.Exec(context.Background(), "DELETE FROM admins"); err != nil {
			t.Logf("Warning: failed to clean admins: %v", err)
		}
	})
}
