// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package lending implements the borrow, return and approval lifecycle.
//
// States per book: Available (no record awaiting approval), Borrowed (open
// record), PendingApproval (returned but unapproved), Closed (approved,
// record kept for history). Each transition is one atomic repository
// operation; the guards are evaluated inside the same transaction that
// performs the write.
package lending

import (
	"context"
	"log/slog"

	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
)

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Borrow checks out a book for the caller and returns the new record ID.
func (s *Service) Borrow(ctx context.Context, bookID int64, caller *models.User) (int64, error) {
	recordID, err := s.repo.BorrowBook(ctx, bookID, caller.ID)
	if err != nil {
		return 0, err
	}

	slog.Info("book_borrowed", "book_id", bookID, "borrower_id", caller.ID, "record_id", recordID)
	return recordID, nil
}

// Return marks the caller's open loan as returned, pending owner approval.
func (s *Service) Return(ctx context.Context, bookID int64, caller *models.User) (int64, error) {
	recordID, err := s.repo.ReturnBook(ctx, bookID, caller.ID)
	if err != nil {
		return 0, err
	}

	slog.Info("book_returned", "book_id", bookID, "borrower_id", caller.ID, "record_id", recordID)
	return recordID, nil
}

// ApproveReturn closes a returned loan. Only the book's owner may approve.
func (s *Service) ApproveReturn(ctx context.Context, bookID int64, caller *models.User) (int64, error) {
	recordID, err := s.repo.ApproveReturn(ctx, bookID, caller.ID)
	if err != nil {
		return 0, err
	}

	slog.Info("return_approved", "book_id", bookID, "owner_id", caller.ID, "record_id", recordID)
	return recordID, nil
}

// ListBorrowed returns the caller's lending history, newest first.
func (s *Service) ListBorrowed(ctx context.Context, caller *models.User, page, size int) (models.Page[models.BorrowedBookView], error) {
	records, total, err := s.repo.ListBorrowedBooks(ctx, caller.ID, size, page*size)
	if err != nil {
		return models.Page[models.BorrowedBookView]{}, err
	}
	return models.NewPage(records, page, size, total), nil
}

// ListReturned returns the returned loans on the caller's own books.
func (s *Service) ListReturned(ctx context.Context, caller *models.User, page, size int) (models.Page[models.BorrowedBookView], error) {
	records, total, err := s.repo.ListReturnedBooks(ctx, caller.ID, size, page*size)
	if err != nil {
		return models.Page[models.BorrowedBookView]{}, err
	}
	return models.NewPage(records, page, size, total), nil
}
