package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-lens/internal/codeowners"
	"github.com/sevigo/review-lens/internal/core"
	"github.com/sevigo/review-lens/internal/review"
)

type fakeService struct {
	gotRef      core.PullRequestRef
	gotCriteria review.Criteria
	err         error
}

func (f *fakeService) PullRequestsToReview(context.Context) ([]core.PullRequest, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []core.PullRequest{{Owner: "octo", Repo: "app", Number: 1, Title: "t", IsDraft: true}}, nil
}

func (f *fakeService) InboxReviewData(context.Context) ([]core.PullRequestReviewData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []core.PullRequestReviewData{{
		PullRequest: core.PullRequest{Owner: "octo", Repo: "app", Number: 1},
		Files:       []core.AggregatedFileData{{File: core.FileChange{Filename: "a.go"}, CodeOwners: []string{}, Reviews: []core.Review{}}},
	}}, nil
}

func (f *fakeService) ReviewData(_ context.Context, ref core.PullRequestRef, c review.Criteria) ([]core.AggregatedFileData, error) {
	f.gotRef, f.gotCriteria = ref, c
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return []core.AggregatedFileData{{
		File:       core.FileChange{Filename: "a.go", Status: core.FileStatusAdded},
		CodeOwners: []string{"alice"},
		Reviews:    []core.Review{},
		IsReviewed: true,
	}}, nil
}

func (f *fakeService) Owners(_ context.Context, ref core.PullRequestRef) (codeowners.Resolution, error) {
	f.gotRef = ref
	if f.err != nil {
		return codeowners.Resolution{}, f.err
	}
	return codeowners.Resolution{CodeOwners: []core.CodeOwner{
		{Username: "alice", Files: []string{"a.go"}, ExclusiveFiles: []string{"a.go"}},
	}}, nil
}

func serve(t *testing.T, svc *fakeService, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeService{}, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestPullRequests(t *testing.T) {
	rec := serve(t, &fakeService{}, http.MethodGet, "/api/v1/pull-requests")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[[]map[string]any](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, "octo", body[0]["owner"])
	assert.Equal(t, true, body[0]["isDraft"])
	assert.NotContains(t, body[0], "reviewStatus")
}

func TestInboxReviewData(t *testing.T) {
	rec := serve(t, &fakeService{}, http.MethodGet, "/api/v1/review-data")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pullRequest"`)
	assert.Contains(t, rec.Body.String(), `"codeOwners":[]`)
}

func TestPullRequestReviewData(t *testing.T) {
	svc := &fakeService{}
	rec := serve(t, svc, http.MethodGet,
		"/api/v1/review-data/octo/app/42?selectedOwner=alice&ownershipFilter=exclusive&reviewStatus=reviewed")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, core.PullRequestRef{Owner: "octo", Repo: "app", Number: 42}, svc.gotRef)
	assert.Equal(t, review.Criteria{Owner: "alice", Ownership: review.OwnershipExclusive, Status: review.StatusReviewed}, svc.gotCriteria)

	body := decode[[]map[string]any](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, true, body[0]["isReviewed"])
	assert.Equal(t, []any{"alice"}, body[0]["codeOwners"])
	file := body[0]["file"].(map[string]any)
	assert.Equal(t, "a.go", file["filename"])
	assert.Equal(t, "added", file["status"])
}

func TestPullRequestReviewData_InvalidParameters(t *testing.T) {
	for _, target := range []string{
		"/api/v1/review-data/octo/app/abc",
		"/api/v1/review-data/octo/app/0",
		"/api/v1/review-data/octo/app/-1",
		"/api/v1/review-data/octo/app/abc/owners",
	} {
		t.Run(target, func(t *testing.T) {
			rec := serve(t, &fakeService{}, http.MethodGet, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"message":"Invalid parameters"}`, rec.Body.String())
		})
	}
}

func TestUpstreamFailure(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("failed to list reviews: %w", errors.New("502 bad gateway"))}
	for _, target := range []string{
		"/api/v1/pull-requests",
		"/api/v1/review-data",
		"/api/v1/review-data/octo/app/1",
		"/api/v1/review-data/octo/app/1/owners",
	} {
		t.Run(target, func(t *testing.T) {
			rec := serve(t, svc, http.MethodGet, target)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "502")
		})
	}
}

func TestOwnersEndpoint(t *testing.T) {
	svc := &fakeService{}
	rec := serve(t, svc, http.MethodGet, "/api/v1/review-data/octo/app/3/owners")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, svc.gotRef.Number)
	assert.JSONEq(t, `[{"username":"alice","files":["a.go"],"exclusiveFiles":["a.go"]}]`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	for _, target := range []string{"/api/v1/pull-requests", "/api/v1/review-data", "/api/v1/review-data/octo/app/1"} {
		rec := serve(t, &fakeService{}, http.MethodPost, target)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, target)
		assert.True(t, strings.Contains(rec.Body.String(), "Method not allowed"), target)
	}
}
