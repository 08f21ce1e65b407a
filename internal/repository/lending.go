// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/vinovest/sqlx"
)

// borrowedViewSelect joins a lending record with its book and rating.
const borrowedViewSelect = `
	SELECT h.id, h.book_id, b.title, b.author_name, b.isbn,
	       COALESCE((SELECT ROUND(AVG(f.note), 1) FROM feedbacks f WHERE f.book_id = b.id), 0) AS rate,
	       h.returned, h.return_approved
	FROM lending_records h
	JOIN books b ON b.id = h.book_id`

// BorrowBook atomically records a new loan. The guards run inside one
// immediate transaction, so two concurrent borrows on the same book serialize
// on the write lock and the loser fails with ErrAlreadyBorrowed.
//
// A book is borrowable only when it is shareable, not archived, not owned by
// the borrower, and has no record that is still awaiting return approval.
func (r *Repository) BorrowBook(ctx context.Context, bookID, borrowerID int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	book, err := getBookTx(ctx, tx, bookID)
	if err != nil {
		return 0, err
	}
	if book.Archived || !book.Shareable {
		return 0, models.ErrBookUnavailable
	}
	if book.OwnerID == borrowerID {
		return 0, models.ErrSelfBorrow
	}

	var open bool
	err = tx.GetContext(ctx, &open,
		`SELECT EXISTS (SELECT 1 FROM lending_records WHERE book_id = ? AND return_approved = 0)`, bookID)
	if err != nil {
		return 0, err
	}
	if open {
		return 0, models.ErrAlreadyBorrowed
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO lending_records (book_id, borrower_id, returned, return_approved, borrowed_at)
		 VALUES (?, ?, 0, 0, ?)`,
		bookID, borrowerID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

// ReturnBook atomically marks the borrower's open loan as returned. Returning
// stays possible on a book that was archived or unshared after the borrow;
// availability only gates new loans.
func (r *Repository) ReturnBook(ctx context.Context, bookID, borrowerID int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	book, err := getBookTx(ctx, tx, bookID)
	if err != nil {
		return 0, err
	}
	if book.OwnerID == borrowerID {
		return 0, models.ErrSelfBorrow
	}

	var recordID int64
	err = tx.GetContext(ctx, &recordID,
		`SELECT id FROM lending_records WHERE book_id = ? AND borrower_id = ? AND returned = 0 LIMIT 1`,
		bookID, borrowerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNoOpenLoan
		}
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE lending_records SET returned = 1, returned_at = ? WHERE id = ?`,
		time.Now().UTC(), recordID)
	if err != nil {
		return 0, err
	}

	return recordID, tx.Commit()
}

// ApproveReturn atomically closes a returned loan. Only the book's owner may
// approve, and only a record that is returned but not yet approved qualifies,
// which makes a repeated approval fail.
func (r *Repository) ApproveReturn(ctx context.Context, bookID, callerID int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	book, err := getBookTx(ctx, tx, bookID)
	if err != nil {
		return 0, err
	}
	if book.OwnerID != callerID {
		return 0, models.ErrNotOwner
	}

	var recordID int64
	err = tx.GetContext(ctx, &recordID,
		`SELECT id FROM lending_records WHERE book_id = ? AND returned = 1 AND return_approved = 0 LIMIT 1`,
		bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNotReturned
		}
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE lending_records SET return_approved = 1, approved_at = ? WHERE id = ?`,
		time.Now().UTC(), recordID)
	if err != nil {
		return 0, err
	}

	return recordID, tx.Commit()
}

// GetLendingRecord retrieves a lending record by ID.
func (r *Repository) GetLendingRecord(ctx context.Context, id int64) (*models.LendingRecord, error) {
	var record models.LendingRecord
	if err := r.db.GetContext(ctx, &record, `SELECT * FROM lending_records WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &record, nil
}

// ListBorrowedBooks returns the caller's lending records, newest first.
func (r *Repository) ListBorrowedBooks(ctx context.Context, borrowerID int64, limit, offset int) ([]models.BorrowedBookView, int64, error) {
	var records []models.BorrowedBookView
	err := r.db.SelectContext(ctx, &records,
		borrowedViewSelect+`
		WHERE h.borrower_id = ?
		ORDER BY h.borrowed_at DESC, h.id DESC
		LIMIT ? OFFSET ?`,
		borrowerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM lending_records WHERE borrower_id = ?`, borrowerID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListReturnedBooks returns the returned records on the caller's own books,
// newest first.
func (r *Repository) ListReturnedBooks(ctx context.Context, ownerID int64, limit, offset int) ([]models.BorrowedBookView, int64, error) {
	var records []models.BorrowedBookView
	err := r.db.SelectContext(ctx, &records,
		borrowedViewSelect+`
		WHERE b.owner_id = ? AND h.returned = 1
		ORDER BY h.borrowed_at DESC, h.id DESC
		LIMIT ? OFFSET ?`,
		ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.db.GetContext(ctx, &total,
		`SELECT COUNT(*)
		 FROM lending_records h JOIN books b ON b.id = h.book_id
		 WHERE b.owner_id = ? AND h.returned = 1`, ownerID)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func getBookTx(ctx context.Context, tx *sqlx.Tx, bookID int64) (*models.Book, error) {
	var book models.Book
	if err := tx.GetContext(ctx, &book, `SELECT * FROM books WHERE id = ?`, bookID); err != nil {
		return nil, wrapError(err)
	}
	return &book, nil
}
