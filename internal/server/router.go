package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/review-lens/internal/server/handler"
)

// requestTimeout bounds a whole API request, including every GitHub call it
// fans out to.
const requestTimeout = 60 * time.Second

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(svc handler.ReviewService, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Configure middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.MethodNotAllowed(handler.MethodNotAllowed)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		reviews := handler.NewReviewHandler(svc, logger)
		r.Get("/pull-requests", reviews.PullRequests)
		r.Get("/review-data", reviews.InboxReviewData)
		r.Route("/review-data/{owner}/{repo}/{pullNumber}", func(r chi.Router) {
			r.Get("/", reviews.PullRequestReviewData)
			r.Get("/owners", reviews.Owners)
		})
	})

	return r
}
