// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare/internal/database"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := database.Open(":memory:")

	require.NoError(t, err)
	defer db.Close()

	// Migrations ran; the core tables exist.
	for _, table := range []string{"users", "activation_tokens", "books", "lending_records", "feedbacks"} {
		var name string
		err := db.Get(&name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		assert.NoError(t, err, table)
	}
}

func TestOpen_FileDSN(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "app.db")

	db, err := database.Open(dsn)

	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dsn)
}

func TestOpen_WALMode(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := database.Open(dsn)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.Get(&mode, `PRAGMA journal_mode`))
	assert.Equal(t, "wal", mode)
}
