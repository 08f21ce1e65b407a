// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelfshare/shelfshare/internal/services/auth"
)

type registrationRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type authenticationRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticationResponse struct {
	Token string `json:"token"`
}

// Register creates a new disabled account and sends the activation mail.
func (h *Handlers) Register(c echo.Context) error {
	var req registrationRequest
	if err := c.Bind(&req); err != nil {
		return &ValidationError{Errors: []string{"invalid request body"}}
	}
	if err := validateRegistration(&req); err != nil {
		return err
	}

	_, err := h.auth.Register(c.Request().Context(), auth.RegisterParams{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusAccepted)
}

// Authenticate verifies credentials and returns a session token.
func (h *Handlers) Authenticate(c echo.Context) error {
	var req authenticationRequest
	if err := c.Bind(&req); err != nil {
		return &ValidationError{Errors: []string{"invalid request body"}}
	}

	signed, err := h.auth.Authenticate(c.Request().Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authenticationResponse{Token: signed})
}

// ActivateAccount consumes an activation code.
func (h *Handlers) ActivateAccount(c echo.Context) error {
	code := c.QueryParam("token")
	if code == "" {
		return &ValidationError{Errors: []string{"token is mandatory"}}
	}

	if err := h.auth.ActivateAccount(c.Request().Context(), code); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}

func validateRegistration(req *registrationRequest) error {
	var errs []string

	req.Firstname = strings.TrimSpace(req.Firstname)
	req.Lastname = strings.TrimSpace(req.Lastname)
	req.Email = strings.TrimSpace(req.Email)

	if req.Firstname == "" {
		errs = append(errs, "firstname is mandatory")
	}
	if req.Lastname == "" {
		errs = append(errs, "lastname is mandatory")
	}
	if req.Email == "" {
		errs = append(errs, "email is mandatory")
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, "email is not well formatted")
	}
	if len(req.Password) < 8 {
		errs = append(errs, "password should be at least 8 characters long")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
