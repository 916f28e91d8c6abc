// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/review-lens/internal/core"
)

const perPage = 100

var (
	// ErrNotFound is returned when a file does not exist or is not readable
	// with the current credentials.
	ErrNotFound = errors.New("not found")
	// ErrUndecodable is returned when file content came back in an encoding
	// that cannot be decoded, for example files over 1 MB.
	ErrUndecodable = errors.New("content could not be decoded")
)

// Client defines the read-only GitHub operations the dashboard needs.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	AuthenticatedUser(ctx context.Context) (string, error)
	SearchReviewRequests(ctx context.Context, login string) ([]core.PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.FileChange, error)
	ListReviews(ctx context.Context, owner, repo string, number int) ([]core.Review, error)
	ListReviewComments(ctx context.Context, owner, repo string, number int) (map[int64][]core.ReviewComment, error)
	GetFileContent(ctx context.Context, owner, repo, path string) (string, error)
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
	retry  RetryPolicy
}

// Option customizes a client built by NewGitHubClient.
type Option func(*gitHubClient)

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *gitHubClient) { g.retry = p }
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for application-specific GitHub operations.
func NewGitHubClient(client *github.Client, logger *slog.Logger, opts ...Option) Client {
	g := &gitHubClient{client: client, logger: logger, retry: DefaultRetryPolicy()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AuthenticatedUser returns the login of the user the client acts as.
func (g *gitHubClient) AuthenticatedUser(ctx context.Context) (string, error) {
	var user *github.User
	err := g.do(ctx, "get authenticated user", func() error {
		var err error
		user, _, err = g.client.Users.Get(ctx, "")
		return err
	})
	if err != nil {
		g.logger.Error("failed to get authenticated user", "error", err)
		return "", err
	}
	return user.GetLogin(), nil
}

// SearchReviewRequests lists open pull requests that request a review from
// login, most recently updated first. Draft flag and review status are not
// part of search results and are left empty.
func (g *gitHubClient) SearchReviewRequests(ctx context.Context, login string) ([]core.PullRequest, error) {
	query := fmt.Sprintf("is:open is:pr review-requested:%s", login)
	opts := &github.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	prs := []core.PullRequest{}
	for {
		var (
			result *github.IssuesSearchResult
			resp   *github.Response
		)
		err := g.do(ctx, "search review requests", func() error {
			var err error
			result, resp, err = g.client.Search.Issues(ctx, query, opts)
			return err
		})
		if err != nil {
			g.logger.Error("failed to search pull requests", "query", query, "error", err)
			return nil, err
		}

		for _, issue := range result.Issues {
			pr, err := pullRequestFromIssue(issue)
			if err != nil {
				g.logger.Warn("skipping search result", "number", issue.GetNumber(), "error", err)
				continue
			}
			prs = append(prs, pr)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return prs, nil
}

// GetPullRequest retrieves a single pull request by its number.
func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	var pr *github.PullRequest
	err := g.do(ctx, "get pull request", func() error {
		var err error
		pr, _, err = g.client.PullRequests.Get(ctx, owner, repo, number)
		return err
	})
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	return pr, nil
}

// GetChangedFiles retrieves the list of files modified in a pull request.
// It handles pagination automatically to ensure all files are fetched
// from the GitHub API, which returns a maximum of 100 files per page.
func (g *gitHubClient) GetChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.FileChange, error) {
	allFiles := []core.FileChange{}
	opts := &github.ListOptions{PerPage: perPage}

	for {
		var (
			files []*github.CommitFile
			resp  *github.Response
		)
		err := g.do(ctx, "list pull request files", func() error {
			var err error
			files, resp, err = g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
			return err
		})
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, file := range files {
			allFiles = append(allFiles, fileChangeFromCommitFile(file))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allFiles, nil
}

// ListReviews retrieves every review of a pull request. Reviews are returned
// without comments; see ListReviewComments.
func (g *gitHubClient) ListReviews(ctx context.Context, owner, repo string, number int) ([]core.Review, error) {
	reviews := []core.Review{}
	opts := &github.ListOptions{PerPage: perPage}

	for {
		var (
			page []*github.PullRequestReview
			resp *github.Response
		)
		err := g.do(ctx, "list reviews", func() error {
			var err error
			page, resp, err = g.client.PullRequests.ListReviews(ctx, owner, repo, number, opts)
			return err
		})
		if err != nil {
			g.logger.Error("failed to list reviews", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, r := range page {
			reviews = append(reviews, reviewFromGitHub(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return reviews, nil
}

// ListReviewComments retrieves the inline comments of a pull request grouped
// by the ID of the review they belong to.
func (g *gitHubClient) ListReviewComments(ctx context.Context, owner, repo string, number int) (map[int64][]core.ReviewComment, error) {
	byReview := make(map[int64][]core.ReviewComment)
	opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}

	for {
		var (
			page []*github.PullRequestComment
			resp *github.Response
		)
		err := g.do(ctx, "list review comments", func() error {
			var err error
			page, resp, err = g.client.PullRequests.ListComments(ctx, owner, repo, number, opts)
			return err
		})
		if err != nil {
			g.logger.Error("failed to list review comments", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, c := range page {
			id := c.GetPullRequestReviewID()
			byReview[id] = append(byReview[id], reviewCommentFromGitHub(c))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return byReview, nil
}

// GetFileContent returns the decoded content of a file on the default
// branch. Missing or forbidden files yield ErrNotFound; content GitHub does
// not inline yields ErrUndecodable.
func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	var file *github.RepositoryContent
	err := g.do(ctx, "get file content", func() error {
		var err error
		file, _, _, err = g.client.Repositories.GetContents(ctx, owner, repo, path, nil)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		g.logger.Error("failed to get file content", "owner", owner, "repo", repo, "path", path, "error", err)
		return "", err
	}
	if file == nil {
		// path is a directory
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", path, ErrUndecodable, err)
	}
	return content, nil
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return false
	}
	return ghErr.Response.StatusCode == http.StatusNotFound || ghErr.Response.StatusCode == http.StatusForbidden
}
