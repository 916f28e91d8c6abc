// Package review joins changed files with their code owners and review state
// and filters the result for display.
package review

import (
	"slices"

	"github.com/sevigo/review-lens/internal/codeowners"
	"github.com/sevigo/review-lens/internal/core"
)

// ownerMatcher decides whether owner applies to filename.
type ownerMatcher func(owner core.CodeOwner, filename string) bool

// AggregateByOwnership builds one record per file, where an owner applies to
// a file only if the filename is listed in the owner's Files. Use it when
// owners were resolved for this exact set of files.
func AggregateByOwnership(files []core.FileChange, reviews []core.Review, owners []core.CodeOwner) []core.AggregatedFileData {
	return aggregate(files, reviews, owners, func(owner core.CodeOwner, filename string) bool {
		return slices.Contains(owner.Files, filename)
	})
}

// AggregateByPattern builds one record per file, treating every entry of an
// owner's Files as a glob to match against the filename.
func AggregateByPattern(files []core.FileChange, reviews []core.Review, owners []core.CodeOwner) []core.AggregatedFileData {
	return aggregate(files, reviews, owners, func(owner core.CodeOwner, filename string) bool {
		for _, pattern := range owner.Files {
			if codeowners.MatchGlob(pattern, filename) {
				return true
			}
		}
		return false
	})
}

func aggregate(files []core.FileChange, reviews []core.Review, owners []core.CodeOwner, applies ownerMatcher) []core.AggregatedFileData {
	out := make([]core.AggregatedFileData, 0, len(files))
	for _, file := range files {
		record := core.AggregatedFileData{
			File:       file,
			CodeOwners: []string{},
			Reviews:    []core.Review{},
		}
		for _, owner := range owners {
			if applies(owner, file.Filename) {
				record.CodeOwners = append(record.CodeOwners, owner.Username)
			}
		}
		for _, r := range reviews {
			if !r.CommentsOn(file.Filename) {
				continue
			}
			record.Reviews = append(record.Reviews, r)
			if r.State == core.ReviewStateApproved {
				record.IsReviewed = true
			}
		}
		out = append(out, record)
	}
	return out
}
