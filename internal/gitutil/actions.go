package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/sevigo/review-lens/internal/core"
)

var pullRefRegex = regexp.MustCompile(`^refs/pull/(\d+)/(?:merge|head)$`)

// ActionsContext is the part of the GitHub Actions environment that
// identifies the pull request a workflow runs for.
type ActionsContext struct {
	Repository string `env:"GITHUB_REPOSITORY,notEmpty"`
	Ref        string `env:"GITHUB_REF,notEmpty"`
	EventName  string `env:"GITHUB_EVENT_NAME" envDefault:""`
}

// PullRequestFromActions reads the pull request reference from the process
// environment of a GitHub Actions run.
func PullRequestFromActions() (core.PullRequestRef, error) {
	return PullRequestFromEnv(nil)
}

// PullRequestFromEnv is PullRequestFromActions over an explicit environment.
// A nil map means the process environment.
func PullRequestFromEnv(environ map[string]string) (core.PullRequestRef, error) {
	var actx ActionsContext
	opts := env.Options{Environment: environ, RequiredIfNoDef: true}
	if err := env.ParseWithOptions(&actx, opts); err != nil {
		return core.PullRequestRef{}, fmt.Errorf("%w: not running in a GitHub Actions pull request: %w", core.ErrInvalidInput, err)
	}
	return actx.PullRequest()
}

// PullRequest derives the reference from GITHUB_REPOSITORY and GITHUB_REF.
func (a ActionsContext) PullRequest() (core.PullRequestRef, error) {
	owner, repo, ok := strings.Cut(a.Repository, "/")
	if !ok {
		return core.PullRequestRef{}, fmt.Errorf("%w: GITHUB_REPOSITORY %q is not owner/repo", core.ErrInvalidInput, a.Repository)
	}

	m := pullRefRegex.FindStringSubmatch(a.Ref)
	if m == nil {
		return core.PullRequestRef{}, fmt.Errorf("%w: GITHUB_REF %q is not a pull request ref (event %q)", core.ErrInvalidInput, a.Ref, a.EventName)
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return core.PullRequestRef{}, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}

	ref := core.PullRequestRef{Owner: owner, Repo: repo, Number: number}
	return ref, ref.Validate()
}
