// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfshare/shelfshare/internal/database"
	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/services/email"
)

// Password is the plaintext password of every fixture user.
const Password = "s3cret-password"

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates an enabled test user with the fixture password.
func NewTestUser(t *testing.T, repo *repository.Repository, userEmail string) *models.User {
	t.Helper()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Firstname:    "Test",
		Lastname:     "User",
		Email:        userEmail,
		PasswordHash: string(hash),
		Roles:        models.RoleUser,
		Enabled:      true,
	}
	require.NoError(t, repo.CreateUser(ctx, user))
	return user
}

// NewTestBook creates a shareable, unarchived book owned by the given user.
func NewTestBook(t *testing.T, repo *repository.Repository, owner *models.User, title string) *models.Book {
	t.Helper()
	ctx := context.Background()

	book := &models.Book{
		Title:      title,
		AuthorName: "Some Author",
		ISBN:       "978-0000000000",
		Synopsis:   "A book used in tests.",
		Shareable:  true,
		OwnerID:    owner.ID,
	}
	require.NoError(t, repo.CreateBook(ctx, book))
	return book
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// RecordingSender is an email.Sender that records instead of delivering.
type RecordingSender struct {
	mu       sync.Mutex
	Messages []email.Message
}

func (s *RecordingSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, msg)
	return nil
}

// Last returns the most recently recorded message.
func (s *RecordingSender) Last(t *testing.T) email.Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.Messages)
	return s.Messages[len(s.Messages)-1]
}
