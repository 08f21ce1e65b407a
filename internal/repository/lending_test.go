// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/testutil"
)

func TestBorrowBook(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	recordID, err := repo.BorrowBook(ctx, book.ID, borrower.ID)

	require.NoError(t, err)
	assert.NotZero(t, recordID)

	record, err := repo.GetLendingRecord(ctx, recordID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, record.BookID)
	assert.Equal(t, borrower.ID, record.BorrowerID)
	assert.False(t, record.Returned)
	assert.False(t, record.ReturnApproved)
}

func TestBorrowBook_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")

	_, err := repo.BorrowBook(ctx, 999, borrower.ID)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBorrowBook_OwnBook(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Mine")

	_, err := repo.BorrowBook(ctx, book.ID, owner.ID)

	assert.ErrorIs(t, err, models.ErrSelfBorrow)
	assert.ErrorIs(t, err, models.ErrNotPermitted)
}

func TestBorrowBook_Archived(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Archived")
	require.NoError(t, repo.UpdateBookArchived(ctx, book.ID, true))

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)

	assert.ErrorIs(t, err, models.ErrBookUnavailable)
}

func TestBorrowBook_NotShareable(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Private")
	require.NoError(t, repo.UpdateBookShareable(ctx, book.ID, false))

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)

	assert.ErrorIs(t, err, models.ErrBookUnavailable)
}

func TestBorrowBook_AlreadyBorrowed(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	first := testutil.NewTestUser(t, repo, "first@example.com")
	second := testutil.NewTestUser(t, repo, "second@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Popular")

	_, err := repo.BorrowBook(ctx, book.ID, first.ID)
	require.NoError(t, err)

	_, err = repo.BorrowBook(ctx, book.ID, second.ID)

	assert.ErrorIs(t, err, models.ErrAlreadyBorrowed)
}

func TestBorrowBook_BlockedUntilApproval(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	first := testutil.NewTestUser(t, repo, "first@example.com")
	second := testutil.NewTestUser(t, repo, "second@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Popular")

	_, err := repo.BorrowBook(ctx, book.ID, first.ID)
	require.NoError(t, err)
	_, err = repo.ReturnBook(ctx, book.ID, first.ID)
	require.NoError(t, err)

	// Returned but not yet approved still blocks the next borrow.
	_, err = repo.BorrowBook(ctx, book.ID, second.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyBorrowed)

	_, err = repo.ApproveReturn(ctx, book.ID, owner.ID)
	require.NoError(t, err)

	_, err = repo.BorrowBook(ctx, book.ID, second.ID)
	assert.NoError(t, err)
}

func TestReturnBook(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	borrowed, err := repo.BorrowBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)

	returned, err := repo.ReturnBook(ctx, book.ID, borrower.ID)

	require.NoError(t, err)
	assert.Equal(t, borrowed, returned)

	record, err := repo.GetLendingRecord(ctx, returned)
	require.NoError(t, err)
	assert.True(t, record.Returned)
	assert.False(t, record.ReturnApproved)
	assert.NotNil(t, record.ReturnedAt)
}

func TestReturnBook_NoOpenLoan(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Untouched")

	_, err := repo.ReturnBook(ctx, book.ID, borrower.ID)

	assert.ErrorIs(t, err, models.ErrNoOpenLoan)
}

func TestReturnBook_Twice(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)
	_, err = repo.ReturnBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)

	_, err = repo.ReturnBook(ctx, book.ID, borrower.ID)

	assert.ErrorIs(t, err, models.ErrNoOpenLoan)
}

func TestReturnBook_ArchivedAfterBorrow(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateBookArchived(ctx, book.ID, true))

	// Archiving gates new loans, not the return of an open one.
	_, err = repo.ReturnBook(ctx, book.ID, borrower.ID)

	assert.NoError(t, err)
}

func TestApproveReturn(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)
	_, err = repo.ReturnBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)

	recordID, err := repo.ApproveReturn(ctx, book.ID, owner.ID)

	require.NoError(t, err)
	record, err := repo.GetLendingRecord(ctx, recordID)
	require.NoError(t, err)
	assert.True(t, record.ReturnApproved)
	assert.NotNil(t, record.ApprovedAt)
}

func TestApproveReturn_NotOwner(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)
	_, err = repo.ReturnBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)

	_, err = repo.ApproveReturn(ctx, book.ID, borrower.ID)

	assert.ErrorIs(t, err, models.ErrNotOwner)
}

func TestApproveReturn_NotReturned(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)

	_, err = repo.ApproveReturn(ctx, book.ID, owner.ID)

	assert.ErrorIs(t, err, models.ErrNotReturned)
}

func TestApproveReturn_Twice(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	borrower := testutil.NewTestUser(t, repo, "borrower@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Lendable")

	_, err := repo.BorrowBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)
	_, err = repo.ReturnBook(ctx, book.ID, borrower.ID)
	require.NoError(t, err)
	_, err = repo.ApproveReturn(ctx, book.ID, owner.ID)
	require.NoError(t, err)

	_, err = repo.ApproveReturn(ctx, book.ID, owner.ID)

	assert.ErrorIs(t, err, models.ErrNotReturned)
}

func TestLendingLifecycle(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	owner := testutil.NewTestUser(t, repo, "owner@example.com")
	first := testutil.NewTestUser(t, repo, "first@example.com")
	second := testutil.NewTestUser(t, repo, "second@example.com")
	book := testutil.NewTestBook(t, repo, owner, "Round Robin")

	// First full cycle.
	_, err := repo.BorrowBook(ctx, book.ID, first.ID)
	require.NoError(t, err)
	_, err = repo.ReturnBook(ctx, book.ID, first.ID)
	require.NoError(t, err)
	_, err = repo.ApproveReturn(ctx, book.ID, owner.ID)
	require.NoError(t, err)

	// Second cycle on the same book; history piles up.
	_, err = repo.BorrowBook(ctx, book.ID, second.ID)
	require.NoError(t, err)

	borrowed, total, err := repo.ListBorrowedBooks(ctx, first.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, borrowed, 1)
	assert.True(t, borrowed[0].Returned)
	assert.True(t, borrowed[0].ReturnApproved)

	returned, total, err := repo.ListReturnedBooks(ctx, owner.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, returned, 1)
	assert.Equal(t, "Round Robin", returned[0].Title)
}

func TestListBorrowedBooks_Empty(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "user@example.com")

	records, total, err := repo.ListBorrowedBooks(ctx, user.ID, 10, 0)

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, records)
}
