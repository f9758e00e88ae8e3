package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func addAuthor(q querier, a *Author) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO authors (root_folder_id, name, openlibrary_id, needs_review, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.RootFolderID, a.Name, a.OpenLibraryID, a.NeedsReview, now,
	)
	if err != nil {
		return fmt.Errorf("insert author: %w", mapSQLiteError(err))
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.AddedAt = now
	return nil
}

// AddAuthor inserts a new author. Sets ID and AddedAt on the struct.
func (s *Store) AddAuthor(a *Author) error { return addAuthor(s.db, a) }

// GetAuthor retrieves an author by ID.
// Returns ErrNotFound if the author does not exist.
func (s *Store) GetAuthor(id int64) (*Author, error) {
	a := &Author{}
	err := s.db.QueryRow(`
		SELECT id, root_folder_id, name, openlibrary_id, needs_review, added_at
		FROM authors WHERE id = ?`, id,
	).Scan(&a.ID, &a.RootFolderID, &a.Name, &a.OpenLibraryID, &a.NeedsReview, &a.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get author %d: %w", id, mapSQLiteError(err))
	}
	return a, nil
}

// GetAuthorByName finds an author by exact name within a root folder.
// Returns nil, nil when not found.
func (s *Store) GetAuthorByName(rootFolderID int64, name string) (*Author, error) {
	a := &Author{}
	err := s.db.QueryRow(`
		SELECT id, root_folder_id, name, openlibrary_id, needs_review, added_at
		FROM authors WHERE root_folder_id = ? AND name = ?`, rootFolderID, name,
	).Scan(&a.ID, &a.RootFolderID, &a.Name, &a.OpenLibraryID, &a.NeedsReview, &a.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get author by name: %w", err)
	}
	return a, nil
}

// ListAuthors returns all authors in a root folder.
func (s *Store) ListAuthors(rootFolderID int64) ([]*Author, error) {
	rows, err := s.db.Query(`
		SELECT id, root_folder_id, name, openlibrary_id, needs_review, added_at
		FROM authors WHERE root_folder_id = ? ORDER BY id`, rootFolderID)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Author
	for rows.Next() {
		a := &Author{}
		if err := rows.Scan(&a.ID, &a.RootFolderID, &a.Name, &a.OpenLibraryID, &a.NeedsReview, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func addBook(q querier, b *Book) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO books (author_id, title, year, openlibrary_id, monitored, needs_review, has_file, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.AuthorID, b.Title, b.Year, b.OpenLibraryID, b.Monitored, b.NeedsReview, b.HasFile, now,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", mapSQLiteError(err))
	}
	b.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	b.AddedAt = now
	return nil
}

// AddBook inserts a new book. Sets ID and AddedAt on the struct.
func (s *Store) AddBook(b *Book) error { return addBook(s.db, b) }

// GetBook retrieves a book by ID.
// Returns ErrNotFound if the book does not exist.
func (s *Store) GetBook(id int64) (*Book, error) {
	b := &Book{}
	err := s.db.QueryRow(`
		SELECT id, author_id, title, year, openlibrary_id, monitored, needs_review, has_file, added_at
		FROM books WHERE id = ?`, id,
	).Scan(&b.ID, &b.AuthorID, &b.Title, &b.Year, &b.OpenLibraryID, &b.Monitored, &b.NeedsReview, &b.HasFile, &b.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, mapSQLiteError(err))
	}
	return b, nil
}

// GetBookByTitle finds a book by exact title (and year when year > 0) under
// an author. Returns nil, nil when not found.
func (s *Store) GetBookByTitle(authorID int64, title string, year int) (*Book, error) {
	query := `
		SELECT id, author_id, title, year, openlibrary_id, monitored, needs_review, has_file, added_at
		FROM books WHERE author_id = ? AND title = ?`
	args := []any{authorID, title}
	if year > 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}

	b := &Book{}
	err := s.db.QueryRow(query, args...).
		Scan(&b.ID, &b.AuthorID, &b.Title, &b.Year, &b.OpenLibraryID, &b.Monitored, &b.NeedsReview, &b.HasFile, &b.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book by title: %w", err)
	}
	return b, nil
}

// ListBooks returns all books under an author.
func (s *Store) ListBooks(authorID int64) ([]*Book, error) {
	rows, err := s.db.Query(`
		SELECT id, author_id, title, year, openlibrary_id, monitored, needs_review, has_file, added_at
		FROM books WHERE author_id = ? ORDER BY id`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Book
	for rows.Next() {
		b := &Book{}
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Year, &b.OpenLibraryID, &b.Monitored, &b.NeedsReview, &b.HasFile, &b.AddedAt); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// SetBookHasFile updates a book's has_file flag.
func (s *Store) SetBookHasFile(id int64, hasFile bool) error {
	if _, err := s.db.Exec(`UPDATE books SET has_file = ? WHERE id = ?`, hasFile, id); err != nil {
		return fmt.Errorf("set book has_file: %w", mapSQLiteError(err))
	}
	return nil
}
