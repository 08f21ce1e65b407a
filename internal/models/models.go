// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package models holds the persistent entities and the views derived from them.
package models

import (
	"strings"
	"time"
)

// Role names stored on a user. Roles are kept as a comma separated list in a
// single column; the set is tiny and never queried by membership.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
	Firstname     string    `db:"firstname" json:"firstname"`
	Lastname      string    `db:"lastname" json:"lastname"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Roles         string    `db:"roles" json:"roles"`
	ID            int64     `db:"id" json:"id"`
	Enabled       bool      `db:"enabled" json:"enabled"`
	AccountLocked bool      `db:"account_locked" json:"account_locked"`
}

// FullName returns the display name embedded in session tokens.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Firstname + " " + u.Lastname)
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range strings.Split(u.Roles, ",") {
		if strings.TrimSpace(r) == role {
			return true
		}
	}
	return false
}

// ActivationToken is a short-lived numeric code proving control of an email
// address. A token is consumed exactly once; ValidatedAt stays NULL until then.
type ActivationToken struct {
	CreatedAt   time.Time  `db:"created_at"`
	ExpiresAt   time.Time  `db:"expires_at"`
	ValidatedAt *time.Time `db:"validated_at"`
	Code        string     `db:"code"`
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *ActivationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type Book struct {
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	Title      string    `db:"title" json:"title"`
	AuthorName string    `db:"author_name" json:"author_name"`
	ISBN       string    `db:"isbn" json:"isbn"`
	Synopsis   string    `db:"synopsis" json:"synopsis"`
	CoverPath  *string   `db:"cover_path" json:"-"`
	ID         int64     `db:"id" json:"id"`
	OwnerID    int64     `db:"owner_id" json:"owner_id"`
	Archived   bool      `db:"archived" json:"archived"`
	Shareable  bool      `db:"shareable" json:"shareable"`
}

// BookView is a Book joined with its owner's name and the derived rating.
type BookView struct {
	Book
	OwnerName string  `db:"owner_name" json:"owner"`
	Rate      float64 `db:"rate" json:"rate"`
}

// LendingRecord tracks one borrow of a book by a user. The pair
// (Returned, ReturnApproved) encodes the lifecycle: open loan, pending
// approval, closed. Closed records are kept for history.
type LendingRecord struct {
	BorrowedAt     time.Time  `db:"borrowed_at" json:"borrowed_at"`
	ReturnedAt     *time.Time `db:"returned_at" json:"returned_at,omitempty"`
	ApprovedAt     *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	ID             int64      `db:"id" json:"id"`
	BookID         int64      `db:"book_id" json:"book_id"`
	BorrowerID     int64      `db:"borrower_id" json:"borrower_id"`
	Returned       bool       `db:"returned" json:"returned"`
	ReturnApproved bool       `db:"return_approved" json:"return_approved"`
}

// BorrowedBookView is a lending record joined with its book for listings.
type BorrowedBookView struct {
	Title          string  `db:"title" json:"title"`
	AuthorName     string  `db:"author_name" json:"author_name"`
	ISBN           string  `db:"isbn" json:"isbn"`
	ID             int64   `db:"id" json:"id"`
	BookID         int64   `db:"book_id" json:"book_id"`
	Rate           float64 `db:"rate" json:"rate"`
	Returned       bool    `db:"returned" json:"returned"`
	ReturnApproved bool    `db:"return_approved" json:"return_approved"`
}

type Feedback struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Comment   string    `db:"comment" json:"comment"`
	ID        int64     `db:"id" json:"id"`
	BookID    int64     `db:"book_id" json:"book_id"`
	UserID    int64     `db:"user_id" json:"-"`
	Note      float64   `db:"note" json:"note"`
}

// FeedbackView marks feedback written by the requesting user.
type FeedbackView struct {
	Feedback
	OwnFeedback bool `db:"own_feedback" json:"own_feedback"`
}
