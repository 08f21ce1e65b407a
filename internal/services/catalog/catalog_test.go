// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/services/catalog"
	"github.com/shelfshare/shelfshare/internal/storage"
	"github.com/shelfshare/shelfshare/internal/testutil"
)

func newTestService(t *testing.T) (*catalog.Service, *repository.Repository) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	covers := storage.NewCoverStore(t.TempDir())
	return catalog.NewService(repo, covers), repo
}

func TestCreate(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")

	id, err := svc.Create(ctx, catalog.CreateParams{
		Title:      "The Go Programming Language",
		AuthorName: "Donovan & Kernighan",
		ISBN:       "978-0134190440",
		Shareable:  true,
	}, owner)

	require.NoError(t, err)
	assert.NotZero(t, id)

	view, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, view.OwnerID)
	assert.True(t, view.Shareable)
}

func TestListVisible_ExcludesOwnBooks(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	caller := testutil.NewTestUser(t, repo, "caller@example.com")

	testutil.NewTestBook(t, repo, owner, "Theirs")
	testutil.NewTestBook(t, repo, caller, "Mine")

	page, err := svc.ListVisible(ctx, caller, 0, 10)

	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalElements)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Theirs", page.Content[0].Title)
}

func TestListOwned_Paging(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	for i := 0; i < 5; i++ {
		testutil.NewTestBook(t, repo, owner, "Book")
	}

	page, err := svc.ListOwned(ctx, owner, 1, 2)

	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.EqualValues(t, 5, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.First)
	assert.False(t, page.Last)
}

func TestToggleShareable(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Flippable")

	require.NoError(t, svc.ToggleShareable(ctx, book.ID, owner))

	updated, err := repo.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, updated.Shareable)

	require.NoError(t, svc.ToggleShareable(ctx, book.ID, owner))

	updated, err = repo.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, updated.Shareable)
}

func TestToggleShareable_NotOwner(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	other := testutil.NewTestUser(t, repo, "other@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Guarded")

	err := svc.ToggleShareable(ctx, book.ID, other)

	assert.ErrorIs(t, err, models.ErrNotOwner)
}

func TestToggleArchived_NotOwner(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	other := testutil.NewTestUser(t, repo, "other@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Guarded")

	err := svc.ToggleArchived(ctx, book.ID, other)

	assert.ErrorIs(t, err, models.ErrNotOwner)
}

func TestSetCoverAndGetCover(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Covered")

	data := []byte("fake image bytes")
	require.NoError(t, svc.SetCover(ctx, book.ID, owner, "cover.JPG", data))

	stored, err := svc.GetCover(ctx, book.ID)

	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestSetCover_NotOwner(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	other := testutil.NewTestUser(t, repo, "other@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Covered")

	err := svc.SetCover(ctx, book.ID, other, "cover.jpg", []byte("x"))

	assert.ErrorIs(t, err, models.ErrNotOwner)
}

func TestGetCover_NoCover(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Bare")

	_, err := svc.GetCover(ctx, book.ID)

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGiveFeedback(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	reader := testutil.NewTestUser(t, repo, "reader@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Reviewed")

	id, err := svc.GiveFeedback(ctx, book.ID, reader, 4.5, "Enjoyed it")

	require.NoError(t, err)
	assert.NotZero(t, id)

	view, err := svc.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, view.Rate, 0.001)
}

func TestGiveFeedback_OwnBook(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Mine")

	_, err := svc.GiveFeedback(ctx, book.ID, owner, 5, "Great")

	assert.ErrorIs(t, err, models.ErrSelfFeedback)
}

func TestGiveFeedback_Archived(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	reader := testutil.NewTestUser(t, repo, "reader@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Archived")
	require.NoError(t, repo.UpdateBookArchived(ctx, book.ID, true))

	_, err := svc.GiveFeedback(ctx, book.ID, reader, 3, "Too late")

	assert.ErrorIs(t, err, models.ErrBookUnavailable)
}

func TestListFeedback_UnknownBook(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	caller := testutil.NewTestUser(t, repo, "caller@example.com")

	_, err := svc.ListFeedback(ctx, 999, caller, 0, 10)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
