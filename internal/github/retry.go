package github

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/go-github/v73/github"
)

// RetryPolicy controls how transient GitHub failures are retried.
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy retries three times starting at one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second}
}

// do runs fn with exponential backoff and jitter, retrying only errors that
// isRetryable accepts.
func (g *gitHubClient) do(ctx context.Context, operation string, fn func() error) error {
	attempts := max(g.retry.Attempts, 1)
	jitter := max(g.retry.InitialDelay/4, time.Millisecond)
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(g.retry.InitialDelay),
		retry.MaxDelay(g.retry.MaxDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(jitter),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn("retrying GitHub request", "operation", operation, "attempt", n+1, "max_attempts", attempts, "error", err)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
}

// isRetryable accepts rate limits, server errors and transport failures.
// Client errors and cancellation are final.
func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		if ghErr.Response == nil {
			return false
		}
		code := ghErr.Response.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}
