// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelfshare/shelfshare/internal/services/catalog"
)

type bookRequest struct {
	Title      string `json:"title"`
	AuthorName string `json:"authorName"`
	ISBN       string `json:"isbn"`
	Synopsis   string `json:"synopsis"`
	Shareable  bool   `json:"shareable"`
}

type feedbackRequest struct {
	Note    float64 `json:"note"`
	Comment string  `json:"comment"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// SaveBook creates a new book owned by the caller.
func (h *Handlers) SaveBook(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return &ValidationError{Errors: []string{"invalid request body"}}
	}
	if err := validateBook(&req); err != nil {
		return err
	}

	id, err := h.catalog.Create(c.Request().Context(), catalog.CreateParams{
		Title:      req.Title,
		AuthorName: req.AuthorName,
		ISBN:       req.ISBN,
		Synopsis:   req.Synopsis,
		Shareable:  req.Shareable,
	}, CurrentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// GetBook returns one book with owner name and rating.
func (h *Handlers) GetBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}

	view, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListBooks returns the books borrowable by the caller, paged.
func (h *Handlers) ListBooks(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.catalog.ListVisible(c.Request().Context(), CurrentUser(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListOwnedBooks returns all books of the caller, paged.
func (h *Handlers) ListOwnedBooks(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.catalog.ListOwned(c.Request().Context(), CurrentUser(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListBorrowedBooks returns the caller's lending history, paged.
func (h *Handlers) ListBorrowedBooks(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.lending.ListBorrowed(c.Request().Context(), CurrentUser(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListReturnedBooks returns the returned loans on the caller's books, paged.
func (h *Handlers) ListReturnedBooks(c echo.Context) error {
	page, size := pageParams(c)
	result, err := h.lending.ListReturned(c.Request().Context(), CurrentUser(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ToggleShareable flips the shareable flag of an owned book.
func (h *Handlers) ToggleShareable(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.ToggleShareable(c.Request().Context(), id, CurrentUser(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idResponse{ID: id})
}

// ToggleArchived flips the archived flag of an owned book.
func (h *Handlers) ToggleArchived(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.ToggleArchived(c.Request().Context(), id, CurrentUser(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idResponse{ID: id})
}

// BorrowBook checks out a book for the caller.
func (h *Handlers) BorrowBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	recordID, err := h.lending.Borrow(c.Request().Context(), id, CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idResponse{ID: recordID})
}

// ReturnBook marks the caller's loan as returned.
func (h *Handlers) ReturnBook(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	recordID, err := h.lending.Return(c.Request().Context(), id, CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idResponse{ID: recordID})
}

// ApproveReturn closes a returned loan on a book owned by the caller.
func (h *Handlers) ApproveReturn(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}
	recordID, err := h.lending.ApproveReturn(c.Request().Context(), id, CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idResponse{ID: recordID})
}

// UploadCover stores a cover image for an owned book.
func (h *Handlers) UploadCover(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return &ValidationError{Errors: []string{"file is mandatory"}}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	if err := h.catalog.SetCover(c.Request().Context(), id, CurrentUser(c), fileHeader.Filename, data); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// GetCover serves the stored cover image of a book.
func (h *Handlers) GetCover(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}

	data, err := h.catalog.GetCover(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}

// GiveFeedback records feedback on a book.
func (h *Handlers) GiveFeedback(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return &ValidationError{Errors: []string{"invalid request body"}}
	}
	if req.Note < 0 || req.Note > 5 {
		return &ValidationError{Errors: []string{"note must be between 0 and 5"}}
	}

	feedbackID, err := h.catalog.GiveFeedback(c.Request().Context(), id, CurrentUser(c), req.Note, strings.TrimSpace(req.Comment))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: feedbackID})
}

// ListFeedback returns the feedback on a book, paged.
func (h *Handlers) ListFeedback(c echo.Context) error {
	id, err := bookID(c)
	if err != nil {
		return err
	}

	page, size := pageParams(c)
	result, err := h.catalog.ListFeedback(c.Request().Context(), id, CurrentUser(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func validateBook(req *bookRequest) error {
	var errs []string

	req.Title = strings.TrimSpace(req.Title)
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	req.ISBN = strings.TrimSpace(req.ISBN)

	if req.Title == "" {
		errs = append(errs, "title is mandatory")
	}
	if req.AuthorName == "" {
		errs = append(errs, "authorName is mandatory")
	}
	if req.ISBN == "" {
		errs = append(errs, "isbn is mandatory")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
