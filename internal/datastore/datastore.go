// Package datastore persists the personal library in a local SQLite
// database: saved books plus the reading lists that organize them.
package datastore

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Reading statuses a list item can carry.
const (
	StatusReading    = "reading"
	StatusCompleted  = "completed"
	StatusWantToRead = "want_to_read"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateISBN is returned when saving a book whose ISBN is
	// already in the library.
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")

	// ErrDefaultList is returned when attempting to delete one of the
	// built-in lists.
	ErrDefaultList = errors.New("default lists cannot be deleted")
)

// ValidStatus reports whether s is a known reading status.
func ValidStatus(s string) bool {
	switch s {
	case StatusReading, StatusCompleted, StatusWantToRead:
		return true
	}
	return false
}

// Store wraps the SQLite database holding the personal library.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and applies
// the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		isbn TEXT UNIQUE,
		cover_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		published_year INTEGER NOT NULL DEFAULT 0,
		page_count INTEGER NOT NULL DEFAULT 0,
		genres TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS book_lists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		is_default INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS book_list_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		list_id INTEGER NOT NULL REFERENCES book_lists(id) ON DELETE CASCADE,
		book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'want_to_read',
		added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(list_id, book_id)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	defaults := []struct {
		name, description string
	}{
		{"Currently Reading", "Books you are reading right now"},
		{"Completed", "Books you have finished"},
		{"Want to Read", "Books on your radar"},
	}
	for _, d := range defaults {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO book_lists (name, description, is_default) VALUES (?, ?, 1)`,
			d.name, d.description,
		)
		if err != nil {
			return fmt.Errorf("failed to seed default lists: %w", err)
		}
	}
	return nil
}
