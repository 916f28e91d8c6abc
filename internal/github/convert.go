package github

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/review-lens/internal/core"
)

func fileChangeFromCommitFile(f *github.CommitFile) core.FileChange {
	return core.FileChange{
		Filename:         f.GetFilename(),
		Status:           core.FileStatus(f.GetStatus()),
		Patch:            f.GetPatch(),
		PreviousFilename: f.GetPreviousFilename(),
		Additions:        f.GetAdditions(),
		Deletions:        f.GetDeletions(),
		Changes:          f.GetChanges(),
	}
}

func reviewFromGitHub(r *github.PullRequestReview) core.Review {
	return core.Review{
		ID:          r.GetID(),
		User:        core.ReviewUser{Login: r.GetUser().GetLogin()},
		State:       core.ReviewState(r.GetState()),
		SubmittedAt: r.GetSubmittedAt().Time,
		Comments:    []core.ReviewComment{},
	}
}

func reviewCommentFromGitHub(c *github.PullRequestComment) core.ReviewComment {
	return core.ReviewComment{
		Path:     c.GetPath(),
		Position: c.GetPosition(),
		Body:     c.GetBody(),
	}
}

// pullRequestFromIssue converts a search hit. The repository is taken from
// the last two segments of its repository_url.
func pullRequestFromIssue(issue *github.Issue) (core.PullRequest, error) {
	parts := strings.Split(strings.TrimSuffix(issue.GetRepositoryURL(), "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return core.PullRequest{}, fmt.Errorf("unexpected repository url %q", issue.GetRepositoryURL())
	}
	return core.PullRequest{
		Owner:     parts[len(parts)-2],
		Repo:      parts[len(parts)-1],
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Author:    issue.GetUser().GetLogin(),
		UpdatedAt: issue.GetUpdatedAt().Time,
	}, nil
}
