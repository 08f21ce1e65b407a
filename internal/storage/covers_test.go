// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package storage_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare/internal/storage"
)

func TestStoreAndRead(t *testing.T) {
	store := storage.NewCoverStore(t.TempDir())
	data := []byte("fake image bytes")

	locator, err := store.Store(7, "cover.jpg", data)
	require.NoError(t, err)
	assert.Contains(t, locator, "users")
	assert.Contains(t, locator, "7")
	assert.True(t, strings.HasSuffix(locator, ".jpg"))

	read, err := store.Read(locator)

	require.NoError(t, err)
	assert.Equal(t, data, read)
}

func TestStore_LowercasesExtension(t *testing.T) {
	store := storage.NewCoverStore(t.TempDir())

	locator, err := store.Store(1, "COVER.PNG", []byte("x"))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(locator, ".png"))
}

func TestStore_NoExtension(t *testing.T) {
	store := storage.NewCoverStore(t.TempDir())

	locator, err := store.Store(1, "cover", []byte("x"))

	require.NoError(t, err)
	assert.NotContains(t, filepath.Base(locator), ".")
}

func TestRead_BlankLocator(t *testing.T) {
	store := storage.NewCoverStore(t.TempDir())

	_, err := store.Read("  ")

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRead_MissingFile(t *testing.T) {
	store := storage.NewCoverStore(t.TempDir())

	_, err := store.Read("/nonexistent/path.jpg")

	assert.ErrorIs(t, err, storage.ErrNotFound)
}
