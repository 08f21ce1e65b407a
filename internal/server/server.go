// Copyright 2025 The shelfshare authors
// Licensed under the EUPL-1.2

// Package server wires configuration, database, services and routes into a
// running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/shelfshare/shelfshare/internal/config"
	"github.com/shelfshare/shelfshare/internal/database"
	"github.com/shelfshare/shelfshare/internal/handlers"
	"github.com/shelfshare/shelfshare/internal/i18n"
	"github.com/shelfshare/shelfshare/internal/repository"
	"github.com/shelfshare/shelfshare/internal/services/auth"
	"github.com/shelfshare/shelfshare/internal/services/catalog"
	"github.com/shelfshare/shelfshare/internal/services/email"
	"github.com/shelfshare/shelfshare/internal/services/lending"
	"github.com/shelfshare/shelfshare/internal/services/token"
	"github.com/shelfshare/shelfshare/internal/storage"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository
	repo := repository.New(db)

	// Collaborators
	issuer, err := token.NewIssuer(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.TTL())
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	var sender email.Sender
	if cfg.SMTP.Host != "" {
		sender, err = email.NewSMTPSender(&cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to create mail sender: %w", err)
		}
	} else {
		slog.Warn("no SMTP host configured, mails are logged only")
		sender = email.LogSender{}
	}

	covers := storage.NewCoverStore(cfg.Uploads.Dir)

	// Services
	authService := auth.NewService(repo, sender, issuer, cfg.ActivationURL())
	catalogService := catalog.NewService(repo, covers)
	lendingService := lending.NewService(repo)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	setupMiddleware(e, cfg)
	setupRoutes(e, repo, issuer, authService, catalogService, lendingService)

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(
	e *echo.Echo,
	repo *repository.Repository,
	issuer *token.Issuer,
	authService *auth.Service,
	catalogService *catalog.Service,
	lendingService *lending.Service,
) {
	h := handlers.New(authService, catalogService, lendingService)

	e.GET("/health", h.Health)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/authenticate", h.Authenticate)
	authGroup.GET("/activate-account", h.ActivateAccount)

	books := e.Group("/books", requireAuth(issuer, repo))
	books.POST("", h.SaveBook)
	books.GET("", h.ListBooks)
	books.GET("/owner", h.ListOwnedBooks)
	books.GET("/borrowed", h.ListBorrowedBooks)
	books.GET("/returned", h.ListReturnedBooks)
	books.GET("/:id", h.GetBook)
	books.PATCH("/:id/shareable", h.ToggleShareable)
	books.PATCH("/:id/archived", h.ToggleArchived)
	books.POST("/:id/borrow", h.BorrowBook)
	books.POST("/:id/return", h.ReturnBook)
	books.POST("/:id/return/approve", h.ApproveReturn)
	books.POST("/:id/cover", h.UploadCover)
	books.GET("/:id/cover", h.GetCover)
	books.POST("/:id/feedback", h.GiveFeedback)
	books.GET("/:id/feedbacks", h.ListFeedback)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
