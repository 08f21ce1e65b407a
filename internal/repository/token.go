// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/shelfshare/shelfshare/internal/models"
)

// CreateActivationToken persists a new activation token and fills in its ID.
func (r *Repository) CreateActivationToken(ctx context.Context, token *models.ActivationToken) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activation_tokens (code, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		token.Code, token.UserID, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return err
	}

	token.ID, err = res.LastInsertId()
	return err
}

// GetActivationToken retrieves the newest unconsumed token with the given code.
func (r *Repository) GetActivationToken(ctx context.Context, code string) (*models.ActivationToken, error) {
	var token models.ActivationToken
	err := r.db.GetContext(ctx, &token,
		`SELECT * FROM activation_tokens WHERE code = ? AND validated_at IS NULL ORDER BY id DESC LIMIT 1`, code)
	if err != nil {
		return nil, wrapError(err)
	}
	return &token, nil
}

// ConsumeActivationToken marks a token validated and enables its user in one
// transaction. Either both mutations persist or neither does. ErrNotFound is
// returned when the token was consumed concurrently.
func (r *Repository) ConsumeActivationToken(ctx context.Context, tokenID, userID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE activation_tokens SET validated_at = ? WHERE id = ? AND validated_at IS NULL`, now, tokenID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET enabled = 1, updated_at = ? WHERE id = ?`, now, userID); err != nil {
		return err
	}

	return tx.Commit()
}
