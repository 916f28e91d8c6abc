package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// FetchCodeOwners returns the raw CODEOWNERS text of a repository, trying
// paths in order. An absent or unreadable file yields "" so that every file
// resolves as unowned; any other failure is returned.
func FetchCodeOwners(ctx context.Context, client Client, owner, repo string, paths []string, logger *slog.Logger) (string, error) {
	for _, p := range paths {
		content, err := client.GetFileContent(ctx, owner, repo, p)
		switch {
		case err == nil:
			logger.Debug("found CODEOWNERS", "owner", owner, "repo", repo, "path", p)
			return content, nil
		case errors.Is(err, ErrNotFound):
			continue
		case errors.Is(err, ErrUndecodable):
			logger.Warn("ignoring CODEOWNERS that could not be decoded", "owner", owner, "repo", repo, "path", p, "error", err)
			return "", nil
		default:
			return "", fmt.Errorf("failed to fetch CODEOWNERS for %s/%s: %w", owner, repo, err)
		}
	}
	logger.Debug("no CODEOWNERS file found", "owner", owner, "repo", repo, "paths", paths)
	return "", nil
}
