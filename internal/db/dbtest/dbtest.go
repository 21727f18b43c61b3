// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltracker/internal/db"
)

func New(tb testing.TB) *sqlx.DB {
	tb.Helper()

	database, err := db.Init("sqlite", ":memory:", 1)
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(context.Background(), database.DB, "sqlite")
	if err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}

	return database
}
