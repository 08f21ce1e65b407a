// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package catalog implements the book catalog: creation, listings, the
// owner-controlled flags, feedback and cover images.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/storage"
)

type Service struct {
	repo   *repository.Repository
	covers *storage.CoverStore
}

func NewService(repo *repository.Repository, covers *storage.CoverStore) *Service {
	return &Service{repo: repo, covers: covers}
}

// CreateParams holds the attributes of a new book.
type CreateParams struct {
	Title      string
	AuthorName string
	ISBN       string
	Synopsis   string
	Shareable  bool
}

// Create persists a new book owned by the caller and returns its ID.
func (s *Service) Create(ctx context.Context, params CreateParams, owner *models.User) (int64, error) {
	book := &models.Book{
		Title:      params.Title,
		AuthorName: params.AuthorName,
		ISBN:       params.ISBN,
		Synopsis:   params.Synopsis,
		Shareable:  params.Shareable,
		OwnerID:    owner.ID,
	}
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return 0, fmt.Errorf("failed to create book: %w", err)
	}

	slog.Info("book_created", "book_id", book.ID, "owner_id", owner.ID)
	return book.ID, nil
}

// Get returns a book with its owner name and derived rating.
func (s *Service) Get(ctx context.Context, bookID int64) (*models.BookView, error) {
	return s.repo.GetBookView(ctx, bookID)
}

// ListVisible returns books borrowable by the caller: shareable, not
// archived, not their own.
func (s *Service) ListVisible(ctx context.Context, caller *models.User, page, size int) (models.Page[models.BookView], error) {
	books, total, err := s.repo.ListVisibleBooks(ctx, caller.ID, size, page*size)
	if err != nil {
		return models.Page[models.BookView]{}, err
	}
	return models.NewPage(books, page, size, total), nil
}

// ListOwned returns all the caller's books regardless of state.
func (s *Service) ListOwned(ctx context.Context, caller *models.User, page, size int) (models.Page[models.BookView], error) {
	books, total, err := s.repo.ListBooksByOwner(ctx, caller.ID, size, page*size)
	if err != nil {
		return models.Page[models.BookView]{}, err
	}
	return models.NewPage(books, page, size, total), nil
}

// ToggleShareable flips the shareable flag. Only the owner may do this.
func (s *Service) ToggleShareable(ctx context.Context, bookID int64, caller *models.User) error {
	book, err := s.ownedBook(ctx, bookID, caller)
	if err != nil {
		return err
	}
	return s.repo.UpdateBookShareable(ctx, bookID, !book.Shareable)
}

// ToggleArchived flips the archived flag. Only the owner may do this.
func (s *Service) ToggleArchived(ctx context.Context, bookID int64, caller *models.User) error {
	book, err := s.ownedBook(ctx, bookID, caller)
	if err != nil {
		return err
	}
	return s.repo.UpdateBookArchived(ctx, bookID, !book.Archived)
}

// SetCover stores the uploaded cover image and records its locator on the
// book. The file write and the locator update are two steps; the locator is
// only written after a successful store, so a crash in between can orphan a
// file but never dangle a reference.
func (s *Service) SetCover(ctx context.Context, bookID int64, caller *models.User, filename string, data []byte) error {
	if _, err := s.ownedBook(ctx, bookID, caller); err != nil {
		return err
	}

	locator, err := s.covers.Store(caller.ID, filename, data)
	if err != nil {
		return fmt.Errorf("failed to store cover: %w", err)
	}

	if err := s.repo.UpdateBookCover(ctx, bookID, locator); err != nil {
		return fmt.Errorf("failed to record cover: %w", err)
	}

	slog.Info("cover_stored", "book_id", bookID, "locator", locator)
	return nil
}

// GetCover reads the stored cover bytes for a book.
func (s *Service) GetCover(ctx context.Context, bookID int64) ([]byte, error) {
	book, err := s.repo.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	locator := ""
	if book.CoverPath != nil {
		locator = *book.CoverPath
	}
	return s.covers.Read(locator)
}

// GiveFeedback records feedback on a borrowable book of another user.
func (s *Service) GiveFeedback(ctx context.Context, bookID int64, caller *models.User, note float64, comment string) (int64, error) {
	book, err := s.repo.GetBookByID(ctx, bookID)
	if err != nil {
		return 0, err
	}
	if book.Archived || !book.Shareable {
		return 0, models.ErrBookUnavailable
	}
	if book.OwnerID == caller.ID {
		return 0, models.ErrSelfFeedback
	}

	feedback := &models.Feedback{
		BookID:  bookID,
		UserID:  caller.ID,
		Note:    note,
		Comment: comment,
	}
	if err := s.repo.CreateFeedback(ctx, feedback); err != nil {
		return 0, fmt.Errorf("failed to create feedback: %w", err)
	}
	return feedback.ID, nil
}

// ListFeedback returns the feedback on a book, flagging the caller's own.
func (s *Service) ListFeedback(ctx context.Context, bookID int64, caller *models.User, page, size int) (models.Page[models.FeedbackView], error) {
	if _, err := s.repo.GetBookByID(ctx, bookID); err != nil {
		return models.Page[models.FeedbackView]{}, err
	}
	feedbacks, total, err := s.repo.ListFeedbackByBook(ctx, bookID, caller.ID, size, page*size)
	if err != nil {
		return models.Page[models.FeedbackView]{}, err
	}
	return models.NewPage(feedbacks, page, size, total), nil
}

func (s *Service) ownedBook(ctx context.Context, bookID int64, caller *models.User) (*models.Book, error) {
	book, err := s.repo.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != caller.ID {
		return nil, models.ErrNotOwner
	}
	return book, nil
}
