// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare/internal/models"
)

// bookViewSelect joins a book with its owner's name and the derived rating.
// The rating is the mean of all feedback notes rounded to one decimal, or 0
// when no feedback exists.
const bookViewSelect = `
	SELECT b.*,
	       u.firstname || ' ' || u.lastname AS owner_name,
	       COALESCE((SELECT ROUND(AVG(f.note), 1) FROM feedbacks f WHERE f.book_id = b.id), 0) AS rate
	FROM books b
	JOIN users u ON u.id = b.owner_id`

// CreateBook persists a new book and fills in its ID.
func (r *Repository) CreateBook(ctx context.Context, book *models.Book) error {
	book.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (title, author_name, isbn, synopsis, cover_path, archived, shareable, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Title, book.AuthorName, book.ISBN, book.Synopsis, book.CoverPath,
		book.Archived, book.Shareable, book.OwnerID, book.CreatedAt)
	if err != nil {
		return err
	}

	book.ID, err = res.LastInsertId()
	return err
}

// GetBookByID retrieves a book by ID.
func (r *Repository) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if err := r.db.GetContext(ctx, &book, `SELECT * FROM books WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &book, nil
}

// GetBookView retrieves a book with owner name and rating.
func (r *Repository) GetBookView(ctx context.Context, id int64) (*models.BookView, error) {
	var view models.BookView
	if err := r.db.GetContext(ctx, &view, bookViewSelect+` WHERE b.id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &view, nil
}

// ListVisibleBooks returns books visible to the caller: not owned by them,
// not archived, and shareable. Newest first.
func (r *Repository) ListVisibleBooks(ctx context.Context, callerID int64, limit, offset int) ([]models.BookView, int64, error) {
	var books []models.BookView
	err := r.db.SelectContext(ctx, &books,
		bookViewSelect+`
		WHERE b.owner_id != ? AND b.archived = 0 AND b.shareable = 1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT ? OFFSET ?`,
		callerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM books WHERE owner_id != ? AND archived = 0 AND shareable = 1`, callerID)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// ListBooksByOwner returns all books owned by the given user regardless of
// state. Newest first.
func (r *Repository) ListBooksByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]models.BookView, int64, error) {
	var books []models.BookView
	err := r.db.SelectContext(ctx, &books,
		bookViewSelect+`
		WHERE b.owner_id = ?
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM books WHERE owner_id = ?`, ownerID); err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// UpdateBookShareable sets the shareable flag.
func (r *Repository) UpdateBookShareable(ctx context.Context, id int64, shareable bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE books SET shareable = ? WHERE id = ?`, shareable, id)
	return err
}

// UpdateBookArchived sets the archived flag.
func (r *Repository) UpdateBookArchived(ctx context.Context, id int64, archived bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE books SET archived = ? WHERE id = ?`, archived, id)
	return err
}

// UpdateBookCover records the stored cover locator on a book.
func (r *Repository) UpdateBookCover(ctx context.Context, id int64, coverPath string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE books SET cover_path = ? WHERE id = ?`, coverPath, id)
	return err
}
