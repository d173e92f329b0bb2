// Package testutils provides testing helpers, primarily database testing
// with transaction isolation.
//
// Transaction isolation pattern: each test runs inside its own transaction,
// which is rolled back when the test completes. Tests can therefore run in
// parallel against the same database, need no manual cleanup, and never see
// each other's rows.
package testutils

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/deckard-app/deckard-api/migrations"
)

// TestDBEnvVar is the environment variable holding the test database URL.
// Integration tests are skipped when it is unset.
const TestDBEnvVar = "DATABASE_URL"

var migrateOnce sync.Once

// GetTestDB opens a connection to the integration test database, applying
// migrations on first use. The test is skipped when DATABASE_URL is unset,
// so the unit suite stays runnable without infrastructure.
// The connection is closed automatically via t.Cleanup.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(TestDBEnvVar)
	if url == "" {
		t.Skipf("skipping: %s not set", TestDBEnvVar)
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	if err := db.Ping(); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	var migrateErr error
	migrateOnce.Do(func() {
		migrateErr = applyMigrations(db)
	})
	if migrateErr != nil {
		t.Fatalf("failed to apply migrations: %v", migrateErr)
	}

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, giving the
// test an isolated view of the database.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

func applyMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}
