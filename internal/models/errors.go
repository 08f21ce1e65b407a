// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package models

import (
	"errors"
	"fmt"
)

// ErrNotPermitted is the common category for every ownership or lifecycle
// guard failure. The specific sentinels below wrap it, so callers can match
// the exact cause with errors.Is while the HTTP boundary maps the whole
// category to one rejected response.
var ErrNotPermitted = errors.New("operation not permitted")

var (
	ErrNotOwner        = fmt.Errorf("%w: you are not the owner of this book", ErrNotPermitted)
	ErrBookUnavailable = fmt.Errorf("%w: this book is archived or not shareable", ErrNotPermitted)
	ErrSelfBorrow      = fmt.Errorf("%w: you cannot borrow or return your own book", ErrNotPermitted)
	ErrAlreadyBorrowed = fmt.Errorf("%w: the requested book is already borrowed", ErrNotPermitted)
	ErrNoOpenLoan      = fmt.Errorf("%w: you did not borrow this book", ErrNotPermitted)
	ErrNotReturned     = fmt.Errorf("%w: the book is not returned yet", ErrNotPermitted)
	ErrSelfFeedback    = fmt.Errorf("%w: you cannot give feedback on your own book", ErrNotPermitted)
)
