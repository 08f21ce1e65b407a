// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package auth implements registration, login and account activation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelfshare/shelfshare/internal/i18n"
	"github.com/shelfshare/shelfshare/internal/models"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/services/email"
	"github.com/shelfshare/shelfshare/internal/services/token"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrActivationExpired  = errors.New("activation token expired")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

type Service struct {
	repo          *repository.Repository
	sender        email.Sender
	issuer        *token.Issuer
	activationURL string
}

func NewService(repo *repository.Repository, sender email.Sender, issuer *token.Issuer, activationURL string) *Service {
	return &Service{
		repo:          repo,
		sender:        sender,
		issuer:        issuer,
		activationURL: activationURL,
	}
}

// RegisterParams holds the parameters for user registration.
type RegisterParams struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// Register creates a disabled user account and dispatches the activation
// mail. A persistence or mail transport failure propagates to the caller.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	exists, err := s.repo.UserExists(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Firstname:    params.Firstname,
		Lastname:     params.Lastname,
		Email:        params.Email,
		PasswordHash: string(passwordHash),
		Roles:        models.RoleUser,
		Enabled:      false,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendActivationMail(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("register_success", "user_id", user.ID, "email", params.Email)

	return user, nil
}

// Authenticate verifies credentials and returns a signed session token.
// Disabled and locked accounts are rejected even with correct credentials.
func (s *Service) Authenticate(ctx context.Context, userEmail, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", userEmail, "reason", "user_not_found")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", userEmail, "reason", "invalid_password")
		return "", ErrInvalidCredentials
	}

	if user.AccountLocked {
		slog.Warn("login_failed", "email", userEmail, "reason", "account_locked")
		return "", ErrAccountLocked
	}
	if !user.Enabled {
		slog.Warn("login_failed", "email", userEmail, "reason", "account_disabled")
		return "", ErrAccountDisabled
	}

	signed, err := s.issuer.Issue(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID, "email", userEmail)
	return signed, nil
}

// ActivateAccount consumes an activation code and enables its user. An
// expired code triggers a fresh code and mail before the error is returned;
// an unknown or already consumed code yields repository.ErrNotFound.
func (s *Service) ActivateAccount(ctx context.Context, code string) error {
	saved, err := s.repo.GetActivationToken(ctx, code)
	if err != nil {
		return err
	}

	user, err := s.repo.GetUserByID(ctx, saved.UserID)
	if err != nil {
		return err
	}

	if saved.Expired(time.Now().UTC()) {
		if err := s.sendActivationMail(ctx, user); err != nil {
			return err
		}
		return ErrActivationExpired
	}

	if err := s.repo.ConsumeActivationToken(ctx, saved.ID, user.ID); err != nil {
		return err
	}

	slog.Info("account_activated", "user_id", user.ID)
	return nil
}

// sendActivationMail issues a fresh activation code and dispatches it.
func (s *Service) sendActivationMail(ctx context.Context, user *models.User) error {
	code, err := s.issueActivationCode(ctx, user)
	if err != nil {
		return err
	}

	msg := email.Message{
		To:             user.Email,
		RecipientName:  user.Firstname,
		Template:       email.TemplateActivateAccount,
		Subject:        i18n.T(ctx, "activation_email_subject"),
		ActivationURL:  s.activationURL,
		ActivationCode: code,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send activation mail: %w", err)
	}

	return nil
}

// issueActivationCode persists a new 6-digit code valid for 15 minutes.
func (s *Service) issueActivationCode(ctx context.Context, user *models.User) (string, error) {
	code, err := generateActivationCode(activationCodeLength)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	activation := &models.ActivationToken{
		Code:      code,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(activationCodeTTL),
	}
	if err := s.repo.CreateActivationToken(ctx, activation); err != nil {
		return "", fmt.Errorf("failed to save activation token: %w", err)
	}

	return code, nil
}
