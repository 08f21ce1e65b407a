// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/services/auth"
	"github.com/shelfshare/shelfshare/internal/storage"
)

// Business error codes carried in error responses.
const (
	codeAccountDisabled   = 301
	codeAccountLocked     = 302
	codeBadCredentials    = 303
	codeActivationExpired = 304
)

// ExceptionResponse is the error body of the API.
type ExceptionResponse struct {
	BusinessErrorCode    int      `json:"businessErrorCode,omitempty"`
	BusinessExceptionDsc string   `json:"businessExceptionDescription,omitempty"`
	Error                string   `json:"error,omitempty"`
	ValidationErrors     []string `json:"validationErrors,omitempty"`
}

// ValidationError carries per-field validation messages to the boundary.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return e.Errors[0]
}

// HTTPErrorHandler maps service errors to structured error responses.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := mapError(err)
	if status == http.StatusInternalServerError {
		slog.Error("internal_error", "error", err, "uri", c.Request().RequestURI)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func mapError(err error) (int, ExceptionResponse) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, ExceptionResponse{ValidationErrors: validationErr.Errors}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ExceptionResponse{Error: httpErrorMessage(httpErr)}
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, ExceptionResponse{
			BusinessErrorCode:    codeBadCredentials,
			BusinessExceptionDsc: "Login or password is incorrect",
			Error:                "Login or password is incorrect",
		}
	case errors.Is(err, auth.ErrAccountLocked):
		return http.StatusUnauthorized, ExceptionResponse{
			BusinessErrorCode:    codeAccountLocked,
			BusinessExceptionDsc: "Account is locked",
			Error:                err.Error(),
		}
	case errors.Is(err, auth.ErrAccountDisabled):
		return http.StatusUnauthorized, ExceptionResponse{
			BusinessErrorCode:    codeAccountDisabled,
			BusinessExceptionDsc: "Account is disabled",
			Error:                err.Error(),
		}
	case errors.Is(err, auth.ErrActivationExpired):
		return http.StatusBadRequest, ExceptionResponse{
			BusinessErrorCode:    codeActivationExpired,
			BusinessExceptionDsc: "Activation token has expired, a new one has been sent",
			Error:                err.Error(),
		}
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusBadRequest, ExceptionResponse{Error: err.Error()}
	case errors.Is(err, models.ErrNotPermitted):
		return http.StatusBadRequest, ExceptionResponse{Error: err.Error()}
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ExceptionResponse{Error: err.Error()}
	}

	return http.StatusInternalServerError, ExceptionResponse{
		BusinessExceptionDsc: "Internal error, contact the admin",
		Error:                err.Error(),
	}
}

func httpErrorMessage(httpErr *echo.HTTPError) string {
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}
	return http.StatusText(httpErr.Code)
}
