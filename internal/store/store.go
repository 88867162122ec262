// Package store persists the gesture classifier artifact in a SQLite file.
package store

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Store is an open classifier artifact.
type Store struct {
	db       *sql.DB
	path     string
	readOnly bool
}

// New opens or creates the artifact at dbPath for writing and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMA foreign_keys is per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Open opens an existing artifact read-only. A missing file is an error.
func Open(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("classifier model: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		readOnly: true,
	}

	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("classifier model %s: %w", dbPath, err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the artifact file path.
func (s *Store) Path() string {
	return s.path
}

// ReadOnly reports whether the store was opened with Open.
func (s *Store) ReadOnly() bool {
	return s.readOnly
}
