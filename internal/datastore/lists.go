package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// List is a named reading list.
type List struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
	BookCount   int    `json:"book_count"`
}

// ListItem is one book's membership in a list.
type ListItem struct {
	ID      int64      `json:"id"`
	Status  string     `json:"status"`
	AddedAt time.Time  `json:"added_at"`
	Book    StoredBook `json:"book"`
}

// ListWithItems is a list together with its member books.
type ListWithItems struct {
	List
	Items []ListItem `json:"items"`
}

// CreateList adds a user-defined list.
func (s *Store) CreateList(name, description string) (*List, error) {
	result, err := s.db.Exec(
		`INSERT INTO book_lists (name, description, is_default) VALUES (?, ?, 0)`,
		name, description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return s.getListHeader(id)
}

// Lists returns all lists with their book counts, default lists first.
func (s *Store) Lists() ([]List, error) {
	rows, err := s.db.Query(
		`SELECT l.id, l.name, l.description, l.is_default, COUNT(i.id)
		 FROM book_lists l
		 LEFT JOIN book_list_items i ON i.list_id = l.id
		 GROUP BY l.id
		 ORDER BY l.is_default DESC, l.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lists []List
	for rows.Next() {
		var l List
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.IsDefault, &l.BookCount); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	return lists, nil
}

// GetList returns a list and its member books, most recently added
// first.
func (s *Store) GetList(id int64) (*ListWithItems, error) {
	header, err := s.getListHeader(id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT i.id, i.status, i.added_at,
		        b.id, b.title, b.author, b.isbn, b.cover_url, b.description,
		        b.published_year, b.page_count, b.genres, b.created_at
		 FROM book_list_items i
		 JOIN books b ON b.id = i.book_id
		 WHERE i.list_id = ?
		 ORDER BY i.added_at DESC, i.id DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := &ListWithItems{List: *header, Items: []ListItem{}}
	for rows.Next() {
		var (
			item   ListItem
			isbn   sql.NullString
			genres string
		)
		err := rows.Scan(&item.ID, &item.Status, &item.AddedAt,
			&item.Book.ID, &item.Book.Title, &item.Book.Author, &isbn,
			&item.Book.CoverURL, &item.Book.Description,
			&item.Book.PublishedYear, &item.Book.PageCount, &genres, &item.Book.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		item.Book.ISBN = isbn.String
		if err := unmarshalGenres(genres, &item.Book); err != nil {
			return nil, err
		}
		result.Items = append(result.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list items: %w", err)
	}
	result.BookCount = len(result.Items)
	return result, nil
}

// UpdateList renames a list or changes its description.
func (s *Store) UpdateList(id int64, name, description string) (*List, error) {
	result, err := s.db.Exec(
		`UPDATE book_lists SET name = ?, description = ? WHERE id = ?`,
		name, description, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return s.getListHeader(id)
}

// DeleteList removes a user-defined list and its memberships. Default
// lists are protected.
func (s *Store) DeleteList(id int64) error {
	header, err := s.getListHeader(id)
	if err != nil {
		return err
	}
	if header.IsDefault {
		return ErrDefaultList
	}

	if _, err := s.db.Exec(`DELETE FROM book_list_items WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear list items: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM book_lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// AddBook puts a book on a list with the given status. Adding a book
// already on the list updates its status instead.
func (s *Store) AddBook(listID, bookID int64, status string) error {
	if status == "" {
		status = StatusWantToRead
	}
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}
	if _, err := s.getListHeader(listID); err != nil {
		return err
	}
	if _, err := s.GetBook(bookID); err != nil {
		return err
	}

	_, err := s.db.Exec(
		`INSERT INTO book_list_items (list_id, book_id, status) VALUES (?, ?, ?)
		 ON CONFLICT(list_id, book_id) DO UPDATE SET status = excluded.status`,
		listID, bookID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to add book to list: %w", err)
	}
	return nil
}

// UpdateItem changes the reading status of a book on a list.
func (s *Store) UpdateItem(listID, bookID int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status %q", status)
	}

	result, err := s.db.Exec(
		`UPDATE book_list_items SET status = ? WHERE list_id = ? AND book_id = ?`,
		status, listID, bookID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list item: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveBook takes a book off a list. The book itself stays in the
// library.
func (s *Store) RemoveBook(listID, bookID int64) error {
	result, err := s.db.Exec(
		`DELETE FROM book_list_items WHERE list_id = ? AND book_id = ?`,
		listID, bookID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove book from list: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) getListHeader(id int64) (*List, error) {
	var l List
	err := s.db.QueryRow(
		`SELECT l.id, l.name, l.description, l.is_default, COUNT(i.id)
		 FROM book_lists l
		 LEFT JOIN book_list_items i ON i.list_id = l.id
		 WHERE l.id = ?
		 GROUP BY l.id`, id).
		Scan(&l.ID, &l.Name, &l.Description, &l.IsDefault, &l.BookCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load list: %w", err)
	}
	return &l, nil
}
