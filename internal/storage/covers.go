// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package storage persists uploaded cover images on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a cover locator is blank or unreadable.
var ErrNotFound = errors.New("cover not found")

// CoverStore writes cover images below a configured root directory, one
// subdirectory per owner. Failures surface as errors like everywhere else;
// there is no soft-fail nil result.
type CoverStore struct {
	root string
}

func NewCoverStore(root string) *CoverStore {
	return &CoverStore{root: root}
}

// Store writes the content under users/<ownerID>/<unix-millis><ext> and
// returns the locator. The extension is taken from the original filename,
// lowercased.
func (s *CoverStore) Store(ownerID int64, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.root, "users", strconv.FormatInt(ownerID, 10))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), fileExtension(filename))
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0o640); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", target, err)
	}

	return target, nil
}

// Read returns the stored bytes for a locator. A blank locator or an
// unreadable file yields ErrNotFound.
func (s *CoverStore) Read(locator string) ([]byte, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, locator)
	}
	return data, nil
}

// fileExtension extracts the lowercased extension including the dot, or an
// empty string when the filename has none.
func fileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
