//go:build wireinject
// +build wireinject

package wire

import (
	"context"
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/review-lens/internal/app"
	"github.com/sevigo/review-lens/internal/config"
	"github.com/sevigo/review-lens/internal/dashboard"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(AppSet)
	return &app.App{}, nil, nil
}

func InitializeService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dashboard.Service, error) {
	wire.Build(ServiceSet)
	return &dashboard.Service{}, nil
}
