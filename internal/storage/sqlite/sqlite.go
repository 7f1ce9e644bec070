// Package sqlite provides a SQLite-backed implementation of the
// storage.HistoryStore interface.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/billsplit/internal/storage"
)

// MemoryDSN keeps the database in process memory. Nothing outlives Close.
const MemoryDSN = "file::memory:"

// Ensure SQLiteStore implements storage.HistoryStore
var _ storage.HistoryStore = (*SQLiteStore)(nil)

// SQLiteStore implements storage.HistoryStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens the database at dsn and runs migrations. An empty dsn or
// ":memory:" opens a private in-memory database. For file paths the parent
// directory is created.
func New(dsn string) (*SQLiteStore, error) {
	if dsn == "" || dsn == ":memory:" {
		dsn = MemoryDSN
	}

	if !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: an in-memory database exists per connection, and
	// PRAGMA foreign_keys is per connection too.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// generateTitle creates an auto-generated title from participant names.
func generateTitle(names []string) string {
	if len(names) == 0 {
		return "Split"
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}
