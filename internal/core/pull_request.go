// Package core defines the domain types shared by the ownership engine, the
// GitHub collaborator layer and the API surfaces. It holds no behaviour beyond
// input validation.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks requests rejected before any data is fetched.
var ErrInvalidInput = errors.New("invalid input")

// PullRequestRef identifies a single pull request on the hosting service.
type PullRequestRef struct {
	Owner  string `json:"owner" yaml:"owner"`
	Repo   string `json:"repo" yaml:"repo"`
	Number int    `json:"number" yaml:"number"`
}

// Validate ensures every identifying part of the reference is present.
func (r PullRequestRef) Validate() error {
	if strings.TrimSpace(r.Owner) == "" {
		return fmt.Errorf("%w: repository owner cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Repo) == "" {
		return fmt.Errorf("%w: repository name cannot be empty", ErrInvalidInput)
	}
	if r.Number <= 0 {
		return fmt.Errorf("%w: pull request number must be positive, got: %d", ErrInvalidInput, r.Number)
	}
	return nil
}

// FullName returns the "owner/repo" form.
func (r PullRequestRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// PullRequest is the lightweight summary shown in the review inbox.
type PullRequest struct {
	Owner        string      `json:"owner" yaml:"owner"`
	Repo         string      `json:"repo" yaml:"repo"`
	Number       int         `json:"number" yaml:"number"`
	Title        string      `json:"title" yaml:"title"`
	Author       string      `json:"author" yaml:"author"`
	IsDraft      bool        `json:"isDraft" yaml:"isDraft"`
	ReviewStatus ReviewState `json:"reviewStatus,omitempty" yaml:"reviewStatus,omitempty"` // viewer's latest review, empty if none
	UpdatedAt    time.Time   `json:"updatedAt" yaml:"updatedAt"`
}

// Ref returns the identifying part of the summary.
func (p PullRequest) Ref() PullRequestRef {
	return PullRequestRef{Owner: p.Owner, Repo: p.Repo, Number: p.Number}
}

// PullRequestReviewData groups the aggregated files of one pull request.
type PullRequestReviewData struct {
	PullRequest PullRequest          `json:"pullRequest" yaml:"pullRequest"`
	Files       []AggregatedFileData `json:"files" yaml:"files"`
}
