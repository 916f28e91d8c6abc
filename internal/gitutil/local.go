// Package gitutil reads pull request context from local Git checkouts, pull
// request URLs and the GitHub Actions environment.
package gitutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/sevigo/review-lens/internal/core"
)

// ErrFileNotFound is returned when a file is absent from the HEAD tree.
var ErrFileNotFound = errors.New("file not found at HEAD")

// Client handles interacting with Git repositories.
type Client struct {
	Logger *slog.Logger
}

// NewClient returns a new Client instance.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{Logger: logger}
}

// Open opens a Git repository at a given path, searching parent directories.
func (c *Client) Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

// ChangedFiles lists the files changed on HEAD since it diverged from base,
// the way a pull request from HEAD into base would show them. Renames are
// detected. Results are sorted by filename.
func (c *Client) ChangedFiles(ctx context.Context, repo *git.Repository, base string) ([]core.FileChange, error) {
	headCommit, err := c.headCommit(repo)
	if err != nil {
		return nil, err
	}

	baseHash, err := repo.ResolveRevision(plumbing.Revision(base))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base revision %s: %w", base, err)
	}
	baseCommit, err := repo.CommitObject(*baseHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for base %s: %w", base, err)
	}

	mergeBases, err := headCommit.MergeBase(baseCommit)
	if err != nil {
		return nil, fmt.Errorf("failed to find merge base of HEAD and %s: %w", base, err)
	}
	if len(mergeBases) > 0 {
		baseCommit = mergeBases[0]
	} else {
		c.Logger.Warn("HEAD and base share no history, diffing trees directly", "base", base)
	}

	oldTree, err := baseCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for base commit %s: %w", baseCommit.Hash, err)
	}
	newTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get tree for HEAD commit %s: %w", headCommit.Hash, err)
	}

	changes, err := object.DiffTreeWithOptions(ctx, oldTree, newTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees between %s and HEAD: %w", baseCommit.Hash, err)
	}

	files := make([]core.FileChange, 0, len(changes))
	for _, change := range changes {
		fc, err := c.fileChange(change)
		if err != nil {
			c.Logger.Error("failed to inspect change, skipping", "from", change.From.Name, "to", change.To.Name, "error", err)
			continue
		}
		files = append(files, fc)
	}
	slices.SortFunc(files, func(a, b core.FileChange) int { return strings.Compare(a.Filename, b.Filename) })
	return files, nil
}

func (c *Client) fileChange(change *object.Change) (core.FileChange, error) {
	action, err := change.Action()
	if err != nil {
		return core.FileChange{}, err
	}

	var fc core.FileChange
	switch action {
	case merkletrie.Insert:
		fc = core.FileChange{Filename: change.To.Name, Status: core.FileStatusAdded}
	case merkletrie.Delete:
		fc = core.FileChange{Filename: change.From.Name, Status: core.FileStatusRemoved}
	case merkletrie.Modify:
		fc = core.FileChange{Filename: change.To.Name, Status: core.FileStatusModified}
		if change.From.Name != change.To.Name {
			fc.Status = "renamed"
			fc.PreviousFilename = change.From.Name
		}
	}

	patch, err := change.Patch()
	if err != nil {
		return core.FileChange{}, fmt.Errorf("failed to compute patch: %w", err)
	}
	for _, stat := range patch.Stats() {
		fc.Additions += stat.Addition
		fc.Deletions += stat.Deletion
	}
	fc.Changes = fc.Additions + fc.Deletions
	fc.Patch = patch.String()
	return fc, nil
}

// ReadFileAtHead returns the content of a repository-relative file in the
// HEAD commit.
func (c *Client) ReadFileAtHead(repo *git.Repository, path string) (string, error) {
	commit, err := c.headCommit(repo)
	if err != nil {
		return "", err
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("failed to get tree for HEAD commit %s: %w", commit.Hash, err)
	}

	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
		}
		return "", fmt.Errorf("failed to read %s at HEAD: %w", path, err)
	}
	return file.Contents()
}

// CodeOwnersAtHead returns the first CODEOWNERS file found among paths at
// HEAD and the path it was found at. When none exists both are empty.
func (c *Client) CodeOwnersAtHead(repo *git.Repository, paths []string) (content, foundAt string, err error) {
	for _, p := range paths {
		text, readErr := c.ReadFileAtHead(repo, p)
		if errors.Is(readErr, ErrFileNotFound) {
			continue
		}
		if readErr != nil {
			return "", "", readErr
		}
		c.Logger.Debug("found CODEOWNERS at HEAD", "path", p)
		return text, p, nil
	}
	return "", "", nil
}

func (c *Client) headCommit(repo *git.Repository) (*object.Commit, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for HEAD %s: %w", head.Hash(), err)
	}
	return commit, nil
}
