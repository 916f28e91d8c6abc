// Package server implements the HTTP server for the application.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/review-lens/internal/config"
	"github.com/sevigo/review-lens/internal/server/handler"
)

// Server wraps an HTTP server with graceful shutdown capabilities.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server serving the review API.
func NewServer(ctx context.Context, cfg *config.Config, svc handler.ReviewService, logger *slog.Logger) *Server {
	router := NewRouter(svc, logger)

	return &Server{
		server: &http.Server{
			Addr:        ":" + cfg.Server.Port,
			Handler:     router,
			BaseContext: func(net.Listener) context.Context { return ctx },
			ReadTimeout: 10 * time.Second,
			// Inbox aggregation fans out to many GitHub calls.
			WriteTimeout: requestTimeout + 5*time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until shutdown or error.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server with a 30-second timeout.
func (s *Server) Stop() error {
	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
