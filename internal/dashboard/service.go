// Package dashboard fetches pull request data from GitHub and runs it through
// the ownership and review aggregation pipeline.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/review-lens/internal/codeowners"
	"github.com/sevigo/review-lens/internal/config"
	"github.com/sevigo/review-lens/internal/core"
	"github.com/sevigo/review-lens/internal/github"
	"github.com/sevigo/review-lens/internal/review"
)

// Options tunes how the service talks to GitHub.
type Options struct {
	CodeOwnersPaths []string
	MaxConcurrency  int
	// WithComments attaches inline review comments to reviews. Without it
	// reviews carry no comments and no file is ever marked reviewed.
	WithComments bool
}

// OptionsFromConfig extracts the service options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CodeOwnersPaths: cfg.CodeOwners.Paths,
		MaxConcurrency:  cfg.GitHub.MaxConcurrency,
		WithComments:    cfg.Review.WithComments,
	}
}

// Service answers the dashboard's questions. It keeps no state between calls.
type Service struct {
	client github.Client
	opts   Options
	logger *slog.Logger
}

// NewService creates a Service backed by client.
func NewService(client github.Client, opts Options, logger *slog.Logger) *Service {
	if len(opts.CodeOwnersPaths) == 0 {
		opts.CodeOwnersPaths = config.DefaultCodeOwnersPaths
	}
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Service{client: client, opts: opts, logger: logger}
}

// inputs is everything fetched for one pull request.
type inputs struct {
	files      []core.FileChange
	reviews    []core.Review
	codeOwners string
}

// ReviewData aggregates the files of one pull request against the ownership
// resolved for exactly those files, then applies criteria.
func (s *Service) ReviewData(ctx context.Context, ref core.PullRequestRef, criteria review.Criteria) ([]core.AggregatedFileData, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	in, err := s.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	res := codeowners.ResolveContent(in.files, in.codeOwners)
	records := review.AggregateByOwnership(in.files, in.reviews, res.CodeOwners)
	s.logger.Debug("aggregated review data", "pr", ref.String(), "files", len(records), "owners", len(res.CodeOwners))
	return review.Filter(records, criteria), nil
}

// Owners resolves the ownership of the files changed by one pull request.
func (s *Service) Owners(ctx context.Context, ref core.PullRequestRef) (codeowners.Resolution, error) {
	if err := ref.Validate(); err != nil {
		return codeowners.Resolution{}, err
	}

	var (
		files   []core.FileChange
		content string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		files, err = s.client.GetChangedFiles(gctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			return fmt.Errorf("failed to get changed files for %s: %w", ref, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		content, err = github.FetchCodeOwners(gctx, s.client, ref.Owner, ref.Repo, s.opts.CodeOwnersPaths, s.logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return codeowners.Resolution{}, err
	}
	return codeowners.ResolveContent(files, content), nil
}

// PullRequestsToReview lists open pull requests awaiting the viewer's
// review, with draft flag and the viewer's latest review state filled in.
func (s *Service) PullRequestsToReview(ctx context.Context) ([]core.PullRequest, error) {
	login, err := s.client.AuthenticatedUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}

	prs, err := s.client.SearchReviewRequests(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to search review requests for %s: %w", login, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)
	for i := range prs {
		g.Go(func() error {
			return s.enrich(gctx, &prs[i], login)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("listed pull requests to review", "user", login, "count", len(prs))
	return prs, nil
}

// enrich fills in the fields search results do not carry.
func (s *Service) enrich(ctx context.Context, pr *core.PullRequest, login string) error {
	ghPR, err := s.client.GetPullRequest(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return fmt.Errorf("failed to get pull request %s: %w", pr.Ref(), err)
	}
	reviews, err := s.client.ListReviews(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return fmt.Errorf("failed to list reviews for %s: %w", pr.Ref(), err)
	}

	pr.IsDraft = ghPR.GetDraft()
	if latest, ok := LatestReviewBy(reviews, login); ok {
		pr.ReviewStatus = latest.State
	}
	return nil
}

// InboxReviewData aggregates every pull request awaiting the viewer's review.
// Owners apply to a file when any of their files, read as a glob, matches it.
func (s *Service) InboxReviewData(ctx context.Context) ([]core.PullRequestReviewData, error) {
	prs, err := s.PullRequestsToReview(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]core.PullRequestReviewData, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)
	for i, pr := range prs {
		g.Go(func() error {
			in, err := s.fetch(gctx, pr.Ref())
			if err != nil {
				return err
			}
			res := codeowners.ResolveContent(in.files, in.codeOwners)
			out[i] = core.PullRequestReviewData{
				PullRequest: pr,
				Files:       review.AggregateByPattern(in.files, in.reviews, res.CodeOwners),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// fetch retrieves changed files, reviews and CODEOWNERS text concurrently.
// Aggregation only starts once all of them have succeeded.
func (s *Service) fetch(ctx context.Context, ref core.PullRequestRef) (inputs, error) {
	var (
		in       inputs
		comments map[int64][]core.ReviewComment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.files, err = s.client.GetChangedFiles(gctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			return fmt.Errorf("failed to get changed files for %s: %w", ref, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.reviews, err = s.client.ListReviews(gctx, ref.Owner, ref.Repo, ref.Number)
		if err != nil {
			return fmt.Errorf("failed to list reviews for %s: %w", ref, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		in.codeOwners, err = github.FetchCodeOwners(gctx, s.client, ref.Owner, ref.Repo, s.opts.CodeOwnersPaths, s.logger)
		return err
	})
	if s.opts.WithComments {
		g.Go(func() error {
			var err error
			comments, err = s.client.ListReviewComments(gctx, ref.Owner, ref.Repo, ref.Number)
			if err != nil {
				return fmt.Errorf("failed to list review comments for %s: %w", ref, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch pull request data", "owner", ref.Owner, "repo", ref.Repo, "pr", ref.Number, "error", err)
		return inputs{}, err
	}

	if comments != nil {
		attachComments(in.reviews, comments)
	}
	return in, nil
}

func attachComments(reviews []core.Review, byReview map[int64][]core.ReviewComment) {
	for i := range reviews {
		if c, ok := byReview[reviews[i].ID]; ok {
			reviews[i].Comments = c
		}
	}
}
