package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/review-lens/internal/core"
)

var (
	prURLRegex   = regexp.MustCompile(`^(?:https?://)?[^/\s]+/([^/\s]+)/([^/\s]+)/pull/(\d+)$`)
	shorthandRef = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
)

// ParsePullRequestURL parses a pull request reference. Supported formats:
//
//	https://github.com/{owner}/{repo}/pull/{number}
//	https://ghe.example.com/{owner}/{repo}/pull/{number}
//	{owner}/{repo}#{number}
func ParsePullRequestURL(raw string) (core.PullRequestRef, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "/")

	matches := prURLRegex.FindStringSubmatch(raw)
	if matches == nil {
		matches = shorthandRef.FindStringSubmatch(raw)
	}
	if len(matches) != 4 {
		return core.PullRequestRef{}, fmt.Errorf("%w: invalid pull request reference: %q", core.ErrInvalidInput, raw)
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil {
		return core.PullRequestRef{}, fmt.Errorf("%w: invalid PR number '%s': %w", core.ErrInvalidInput, matches[3], err)
	}

	ref := core.PullRequestRef{Owner: matches[1], Repo: matches[2], Number: number}
	if err := ref.Validate(); err != nil {
		return core.PullRequestRef{}, err
	}
	return ref, nil
}
