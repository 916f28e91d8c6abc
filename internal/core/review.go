package core

import "time"

// ReviewState is the state GitHub reports for a pull request review.
type ReviewState string

// ReviewState values.
const (
	ReviewStateApproved         ReviewState = "APPROVED"
	ReviewStateChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewStateCommented        ReviewState = "COMMENTED"
	ReviewStateDismissed        ReviewState = "DISMISSED"
	ReviewStatePending          ReviewState = "PENDING"
)

// ReviewUser is the author of a review.
type ReviewUser struct {
	Login string `json:"login" yaml:"login"`
}

// ReviewComment is an inline comment left as part of a review.
type ReviewComment struct {
	Path     string `json:"path" yaml:"path"`
	Position int    `json:"position" yaml:"position"`
	Body     string `json:"body" yaml:"body"`
}

// Review is a single review event on a pull request. SubmittedAt is zero for
// reviews that were never submitted.
type Review struct {
	ID          int64           `json:"id" yaml:"id"`
	User        ReviewUser      `json:"user" yaml:"user"`
	State       ReviewState     `json:"state" yaml:"state"`
	SubmittedAt time.Time       `json:"submittedAt" yaml:"submittedAt"`
	Comments    []ReviewComment `json:"comments" yaml:"comments"`
}

// CommentsOn reports whether any comment of the review targets path.
func (r Review) CommentsOn(path string) bool {
	for _, c := range r.Comments {
		if c.Path == path {
			return true
		}
	}
	return false
}
