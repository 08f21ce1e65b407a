// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare/internal/handlers"
	"github.com/shelfshare/shelfshare/internal/i18n"
	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/services/auth"
	"github.com/shelfshare/shelfshare/internal/services/catalog"
	"github.com/shelfshare/shelfshare/internal/services/lending"
	"github.com/shelfshare/shelfshare/internal/services/token"
	"github.com/shelfshare/shelfshare/internal/storage"
	"github.com/shelfshare/shelfshare/internal/testutil"
)

type testApp struct {
	e      *echo.Echo
	h      *handlers.Handlers
	repo   *repository.Repository
	sender *testutil.RecordingSender

	// user is injected as the authenticated caller on protected routes.
	user *models.User
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	require.NoError(t, i18n.Init())

	_, repo := testutil.NewTestDB(t)
	sender := &testutil.RecordingSender{}

	issuer, err := token.NewIssuer("test-secret", "shelfshare-test", time.Hour)
	require.NoError(t, err)

	covers := storage.NewCoverStore(t.TempDir())

	authService := auth.NewService(repo, sender, issuer, "http://localhost:8080/auth/activate-account")
	catalogService := catalog.NewService(repo, covers)
	lendingService := lending.NewService(repo)

	e := echo.New()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	return &testApp{
		e:      e,
		h:      handlers.New(authService, catalogService, lendingService),
		repo:   repo,
		sender: sender,
	}
}

// injectUser stands in for the bearer token middleware in tests.
func (app *testApp) injectUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(handlers.UserContextKey, app.user)
		return next(c)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
