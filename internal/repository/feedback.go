// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare/internal/models"
)

// CreateFeedback persists a new feedback and fills in its ID.
func (r *Repository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feedbacks (book_id, user_id, note, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		feedback.BookID, feedback.UserID, feedback.Note, feedback.Comment, feedback.CreatedAt)
	if err != nil {
		return err
	}

	feedback.ID, err = res.LastInsertId()
	return err
}

// ListFeedbackByBook returns the feedback on a book, newest first, with
// entries written by the caller flagged as their own.
func (r *Repository) ListFeedbackByBook(ctx context.Context, bookID, callerID int64, limit, offset int) ([]models.FeedbackView, int64, error) {
	var feedbacks []models.FeedbackView
	err := r.db.SelectContext(ctx, &feedbacks,
		`SELECT f.*, f.user_id = ? AS own_feedback
		 FROM feedbacks f
		 WHERE f.book_id = ?
		 ORDER BY f.created_at DESC, f.id DESC
		 LIMIT ? OFFSET ?`,
		callerID, bookID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM feedbacks WHERE book_id = ?`, bookID); err != nil {
		return nil, 0, err
	}

	return feedbacks, total, nil
}
