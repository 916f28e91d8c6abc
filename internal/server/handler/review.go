// Package handler provides the HTTP handlers of the review-lens API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/review-lens/internal/codeowners"
	"github.com/sevigo/review-lens/internal/core"
	"github.com/sevigo/review-lens/internal/review"
)

// ReviewService is the part of the dashboard the API exposes.
type ReviewService interface {
	PullRequestsToReview(ctx context.Context) ([]core.PullRequest, error)
	InboxReviewData(ctx context.Context) ([]core.PullRequestReviewData, error)
	ReviewData(ctx context.Context, ref core.PullRequestRef, criteria review.Criteria) ([]core.AggregatedFileData, error)
	Owners(ctx context.Context, ref core.PullRequestRef) (codeowners.Resolution, error)
}

type errorResponse struct {
	Message string `json:"message"`
}

// ReviewHandler serves pull request and review data.
type ReviewHandler struct {
	svc    ReviewService
	logger *slog.Logger
}

// NewReviewHandler creates a new review handler backed by svc.
func NewReviewHandler(svc ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, logger: logger}
}

// PullRequests lists the pull requests awaiting the viewer's review.
func (h *ReviewHandler) PullRequests(w http.ResponseWriter, r *http.Request) {
	prs, err := h.svc.PullRequestsToReview(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prs)
}

// InboxReviewData aggregates every pull request awaiting the viewer's review.
func (h *ReviewHandler) InboxReviewData(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.InboxReviewData(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

// PullRequestReviewData aggregates one pull request. The optional query
// parameters selectedOwner, ownershipFilter and reviewStatus narrow the result.
func (h *ReviewHandler) PullRequestReviewData(w http.ResponseWriter, r *http.Request) {
	ref, err := pullRequestRef(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	q := r.URL.Query()
	criteria := review.Criteria{
		Owner:     q.Get("selectedOwner"),
		Ownership: review.OwnershipFilter(q.Get("ownershipFilter")),
		Status:    review.Status(q.Get("reviewStatus")),
	}

	records, err := h.svc.ReviewData(r.Context(), ref, criteria)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// Owners returns the code owners of the files changed by one pull request.
func (h *ReviewHandler) Owners(w http.ResponseWriter, r *http.Request) {
	ref, err := pullRequestRef(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	res, err := h.svc.Owners(r.Context(), ref)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res.CodeOwners)
}

// MethodNotAllowed answers requests with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed"})
}

func pullRequestRef(r *http.Request) (core.PullRequestRef, error) {
	number, err := strconv.Atoi(chi.URLParam(r, "pullNumber"))
	if err != nil {
		return core.PullRequestRef{}, errors.Join(core.ErrInvalidInput, err)
	}
	ref := core.PullRequestRef{
		Owner:  chi.URLParam(r, "owner"),
		Repo:   chi.URLParam(r, "repo"),
		Number: number,
	}
	return ref, ref.Validate()
}

// fail maps err to a response. Causes of server errors are logged, never
// returned to the client.
func (h *ReviewHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrInvalidInput) {
		h.logger.Debug("rejected request", "error", err)
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid parameters"})
		return
	}
	h.logger.Error("failed to serve review data", "error", err)
	respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
