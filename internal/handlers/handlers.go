// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers of the JSON API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shelfshare/shelfshare/internal/services/auth"
	"github.com/shelfshare/shelfshare/internal/services/catalog"
	"github.com/shelfshare/shelfshare/internal/services/lending"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	auth    *auth.Service
	catalog *catalog.Service
	lending *lending.Service
}

// New creates a new Handlers instance.
func New(authService *auth.Service, catalogService *catalog.Service, lendingService *lending.Service) *Handlers {
	return &Handlers{
		auth:    authService,
		catalog: catalogService,
		lending: lendingService,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
