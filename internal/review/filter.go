package review

import (
	"slices"

	"github.com/sevigo/review-lens/internal/core"
)

// OwnershipFilter selects how Criteria.Owner is compared with a file's owners.
type OwnershipFilter string

const (
	OwnershipAll       OwnershipFilter = "all"
	OwnershipExclusive OwnershipFilter = "exclusive"
)

// Status selects files by review state.
type Status string

const (
	StatusAll        Status = "all"
	StatusReviewed   Status = "reviewed"
	StatusUnreviewed Status = "unreviewed"
)

// Criteria narrows a list of aggregated records. The zero value passes
// everything.
type Criteria struct {
	Owner     string
	Ownership OwnershipFilter
	Status    Status
}

// Filter returns the records matching every condition of c, in input order.
// An unknown Ownership behaves like OwnershipAll; an unknown Status matches
// nothing.
func Filter(records []core.AggregatedFileData, c Criteria) []core.AggregatedFileData {
	out := make([]core.AggregatedFileData, 0, len(records))
	for _, r := range records {
		if c.matchesOwner(r) && c.matchesStatus(r) {
			out = append(out, r)
		}
	}
	return out
}

func (c Criteria) matchesOwner(r core.AggregatedFileData) bool {
	if c.Owner == "" {
		return true
	}
	if c.Ownership == OwnershipExclusive {
		return len(r.CodeOwners) == 1 && r.CodeOwners[0] == c.Owner
	}
	return slices.Contains(r.CodeOwners, c.Owner)
}

func (c Criteria) matchesStatus(r core.AggregatedFileData) bool {
	switch c.Status {
	case "", StatusAll:
		return true
	case StatusReviewed:
		return r.IsReviewed
	case StatusUnreviewed:
		return !r.IsReviewed
	default:
		return false
	}
}

// UniqueOwners lists every owner appearing in records, in first-seen order.
func UniqueOwners(records []core.AggregatedFileData) []string {
	seen := make(map[string]struct{})
	owners := []string{}
	for _, r := range records {
		for _, o := range r.CodeOwners {
			if _, ok := seen[o]; ok {
				continue
			}
			seen[o] = struct{}{}
			owners = append(owners, o)
		}
	}
	return owners
}
