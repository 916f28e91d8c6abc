package wire

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/review-lens/internal/app"
	"github.com/sevigo/review-lens/internal/config"
	"github.com/sevigo/review-lens/internal/dashboard"
	"github.com/sevigo/review-lens/internal/github"
	"github.com/sevigo/review-lens/internal/logger"
	"github.com/sevigo/review-lens/internal/server"
	"github.com/sevigo/review-lens/internal/server/handler"
)

// ServiceSet builds a dashboard.Service from a loaded config and logger.
var ServiceSet = wire.NewSet(
	dashboard.NewService,
	dashboard.OptionsFromConfig,
	provideGitHubConfig,
	github.NewClientFromConfig,
)

// AppSet builds the HTTP server application.
var AppSet = wire.NewSet(
	ServiceSet,
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	provideLoggerConfig,
	provideSlogLogger,
	wire.Bind(new(handler.ReviewService), new(*dashboard.Service)),
)

func provideGitHubConfig(cfg *config.Config) config.GitHubConfig {
	return cfg.GitHub
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideSlogLogger(loggerConfig logger.Config) *slog.Logger {
	return logger.NewLogger(loggerConfig, nil)
}
