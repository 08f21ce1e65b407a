// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/shelfshare/shelfshare/internal/models"
)

// UserContextKey is the echo context key under which the authentication
// middleware stores the current user.
const UserContextKey = "currentUser"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// CurrentUser returns the authenticated user set by the middleware, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(UserContextKey).(*models.User)
	return user
}

// pageParams reads the page and size query parameters with defaults.
func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}

	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return page, size
}

// bookID reads the {id} path parameter.
func bookID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &ValidationError{Errors: []string{"invalid book id"}}
	}
	return id, nil
}
