package datastore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blancasnz/personal-book-tracker/internal/book"
)

// StoredBook is a library entry: a canonical book record plus its
// database identity.
type StoredBook struct {
	ID int64 `json:"id"`
	book.Book
	CreatedAt time.Time `json:"created_at"`
}

// CreateBook saves a book to the library. An ISBN already present in
// the library yields ErrDuplicateISBN.
func (s *Store) CreateBook(b book.Book) (*StoredBook, error) {
	genres, err := json.Marshal(b.Genres)
	if err != nil {
		return nil, fmt.Errorf("failed to encode genres: %w", err)
	}

	var isbn any
	if b.ISBN != "" {
		isbn = b.ISBN
	}

	result, err := s.db.Exec(
		`INSERT INTO books (title, author, isbn, cover_url, description, published_year, page_count, genres)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title, b.Author, isbn, b.CoverURL, b.Description, b.PublishedYear, b.PageCount, string(genres),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateISBN
		}
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return s.GetBook(id)
}

// GetBook returns the library entry with the given id.
func (s *Store) GetBook(id int64) (*StoredBook, error) {
	row := s.db.QueryRow(
		`SELECT id, title, author, isbn, cover_url, description, published_year, page_count, genres, created_at
		 FROM books WHERE id = ?`, id)
	return scanBook(row)
}

// GetBookByISBN returns the library entry with the given ISBN.
func (s *Store) GetBookByISBN(isbn string) (*StoredBook, error) {
	row := s.db.QueryRow(
		`SELECT id, title, author, isbn, cover_url, description, published_year, page_count, genres, created_at
		 FROM books WHERE isbn = ?`, isbn)
	return scanBook(row)
}

// ListBooks returns all library entries, most recently added first.
func (s *Store) ListBooks() ([]StoredBook, error) {
	rows, err := s.db.Query(
		`SELECT id, title, author, isbn, cover_url, description, published_year, page_count, genres, created_at
		 FROM books ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return collectBooks(rows)
}

// SearchBooks returns library entries whose title or author contains
// the query, case insensitively.
func (s *Store) SearchBooks(query string) ([]StoredBook, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := s.db.Query(
		`SELECT id, title, author, isbn, cover_url, description, published_year, page_count, genres, created_at
		 FROM books
		 WHERE lower(title) LIKE ? OR lower(author) LIKE ?
		 ORDER BY created_at DESC, id DESC`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return collectBooks(rows)
}

// UpdateBook replaces the stored record's fields with b.
func (s *Store) UpdateBook(id int64, b book.Book) (*StoredBook, error) {
	genres, err := json.Marshal(b.Genres)
	if err != nil {
		return nil, fmt.Errorf("failed to encode genres: %w", err)
	}

	var isbn any
	if b.ISBN != "" {
		isbn = b.ISBN
	}

	result, err := s.db.Exec(
		`UPDATE books SET title = ?, author = ?, isbn = ?, cover_url = ?, description = ?,
		 published_year = ?, page_count = ?, genres = ? WHERE id = ?`,
		b.Title, b.Author, isbn, b.CoverURL, b.Description, b.PublishedYear, b.PageCount, string(genres), id,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateISBN
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetBook(id)
}

// DeleteBook removes the library entry and its list memberships.
func (s *Store) DeleteBook(id int64) error {
	// Membership rows are removed explicitly; SQLite only honors the
	// cascade when foreign keys are enabled on the connection.
	if _, err := s.db.Exec(`DELETE FROM book_list_items WHERE book_id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove list memberships: %w", err)
	}

	result, err := s.db.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*StoredBook, error) {
	var (
		b      StoredBook
		isbn   sql.NullString
		genres string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &isbn, &b.CoverURL, &b.Description,
		&b.PublishedYear, &b.PageCount, &genres, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	b.ISBN = isbn.String
	if err := unmarshalGenres(genres, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func unmarshalGenres(raw string, b *StoredBook) error {
	if raw == "" {
		raw = "[]"
	}
	if err := json.Unmarshal([]byte(raw), &b.Genres); err != nil {
		return fmt.Errorf("failed to decode genres: %w", err)
	}
	return nil
}

func collectBooks(rows *sql.Rows) ([]StoredBook, error) {
	defer func() { _ = rows.Close() }()

	var books []StoredBook
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}
