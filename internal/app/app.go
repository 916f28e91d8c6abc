// Package app initializes and orchestrates the main components of the
// review-lens server.
package app

import (
	"log/slog"

	"github.com/sevigo/review-lens/internal/config"
	"github.com/sevigo/review-lens/internal/server"
)

// App holds the main application components.
type App struct {
	cfg    *config.Config
	server *server.Server
	logger *slog.Logger
}

// NewApp sets up the application with all its dependencies.
func NewApp(cfg *config.Config, srv *server.Server, logger *slog.Logger) *App {
	logger.Info("review-lens initialized",
		"port", cfg.Server.Port,
		"github_app", cfg.GitHub.UsesApp(),
		"max_concurrency", cfg.GitHub.MaxConcurrency,
		"with_comments", cfg.Review.WithComments)
	return &App{cfg: cfg, server: srv, logger: logger}
}

// Start runs the HTTP server.
func (a *App) Start() error {
	a.logger.Info("starting review-lens", "server_port", a.cfg.Server.Port)

	err := a.server.Start()
	if err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}

	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	a.logger.Info("shutting down review-lens")

	if err := a.server.Stop(); err != nil {
		a.logger.Error("review-lens stopped with errors", "error", err)
		return err
	}

	a.logger.Info("review-lens stopped successfully")
	return nil
}
