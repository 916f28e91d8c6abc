package dashboard

import "github.com/sevigo/review-lens/internal/core"

// LatestReviewBy returns the most recently submitted review by login. Among
// reviews with the same submission time the earliest listed wins.
func LatestReviewBy(reviews []core.Review, login string) (core.Review, bool) {
	best := -1
	for i, r := range reviews {
		if r.User.Login != login {
			continue
		}
		if best < 0 || r.SubmittedAt.After(reviews[best].SubmittedAt) {
			best = i
		}
	}
	if best < 0 {
		return core.Review{}, false
	}
	return reviews[best], true
}
