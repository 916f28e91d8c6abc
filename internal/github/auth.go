package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/sevigo/review-lens/internal/config"
)

// NewClientFromConfig builds a client authenticated either as a GitHub App
// installation or with a personal access token, depending on cfg.
func NewClientFromConfig(ctx context.Context, cfg config.GitHubConfig, logger *slog.Logger) (Client, error) {
	var (
		gh  *github.Client
		err error
	)
	if cfg.UsesApp() {
		gh, err = CreateInstallationClient(cfg, logger)
	} else {
		gh, err = CreatePATClient(ctx, cfg, logger)
	}
	if err != nil {
		return nil, err
	}

	policy := DefaultRetryPolicy()
	policy.Attempts = cfg.RetryAttempts
	return NewGitHubClient(gh, logger, WithRetryPolicy(policy)), nil
}

// CreatePATClient creates a go-github client authenticated with a Personal
// Access Token. This is the usual mode for the CLI and local development.
func CreatePATClient(ctx context.Context, cfg config.GitHubConfig, logger *slog.Logger) (*github.Client, error) {
	logger.Debug("Creating GitHub client with personal access token")

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = cfg.RequestTimeout

	gh := github.NewClient(tc)
	if cfg.BaseURL == "" {
		return gh, nil
	}
	return withBaseURL(gh, cfg.BaseURL)
}

// CreateInstallationClient creates a go-github client authenticated as a
// specific application installation. Installation tokens are minted and
// refreshed by the transport.
func CreateInstallationClient(cfg config.GitHubConfig, logger *slog.Logger) (*github.Client, error) {
	logger.Info("Creating GitHub installation client", "app_id", cfg.AppID, "installation_id", cfg.InstallationID)

	tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation transport from %s: %w", cfg.PrivateKeyPath, err)
	}
	if cfg.BaseURL != "" {
		tr.BaseURL = strings.TrimSuffix(apiURL(cfg.BaseURL), "/")
	}

	gh := github.NewClient(&http.Client{Transport: tr, Timeout: cfg.RequestTimeout})
	if cfg.BaseURL == "" {
		return gh, nil
	}
	return withBaseURL(gh, cfg.BaseURL)
}

// withBaseURL points gh at a GitHub Enterprise Server instance.
func withBaseURL(gh *github.Client, baseURL string) (*github.Client, error) {
	gh, err := gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github base url %q: %w", baseURL, err)
	}
	return gh, nil
}

// apiURL mirrors the normalization go-github applies to enterprise URLs.
func apiURL(baseURL string) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if !strings.HasSuffix(baseURL, "/api/v3/") && !strings.HasPrefix(baseURL, "https://api.") && !strings.Contains(baseURL, ".api.") {
		baseURL += "api/v3/"
	}
	return baseURL
}
