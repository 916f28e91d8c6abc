package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/review-lens/internal/core"
	"github.com/sevigo/review-lens/internal/gitutil"
	"github.com/sevigo/review-lens/internal/review"
	"github.com/sevigo/review-lens/internal/wire"
)

var (
	reviewCriteria review.Criteria
	reviewFormat   string
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url | owner/repo#number]",
	Short: "Show the owners and review state of every file in a pull request",
	Long: `Show the owners and review state of every file in a pull request.

Without an argument the pull request is taken from the GitHub Actions
environment (GITHUB_REPOSITORY and GITHUB_REF).

Examples:
  lens review https://github.com/owner/repo/pull/123
  lens review owner/repo#123 --owner platform-team --status unreviewed
  lens review owner/repo#123 --owner alice --ownership exclusive -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	flags := reviewCmd.Flags()
	flags.AddFlagSet(filterFlags(&reviewCriteria))
	outputFlag(flags, &reviewFormat)
	flags.Bool("with-comments", false, "attach inline review comments to each review")
	bindFlag("review.with_comments", flags.Lookup("with-comments"))
	rootCmd.AddCommand(reviewCmd)
}

// pullRequestRef reads the target from args or the Actions environment.
func pullRequestRef(args []string) (core.PullRequestRef, error) {
	if len(args) == 1 {
		return gitutil.ParsePullRequestURL(args[0])
	}
	ref, err := gitutil.PullRequestFromActions()
	if err != nil {
		return core.PullRequestRef{}, fmt.Errorf("no pull request given and none found in the environment: %w", err)
	}
	return ref, nil
}

func runReview(cmd *cobra.Command, args []string) error {
	if err := validateFormat(reviewFormat); err != nil {
		return err
	}
	ref, err := pullRequestRef(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w\n\nTip: set REVIEW_LENS_GITHUB_TOKEN or pass --github-token", err)
	}
	svc, err := wire.InitializeService(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	records, err := svc.ReviewData(ctx, ref, reviewCriteria)
	if err != nil {
		return fmt.Errorf("failed to load review data for %s: %w", ref, err)
	}

	out := cmd.OutOrStdout()
	if reviewFormat != formatTable {
		return writeStructured(out, reviewFormat, records)
	}
	return renderReview(out, ref, records)
}

func renderReview(w io.Writer, ref core.PullRequestRef, records []core.AggregatedFileData) error {
	titleColor.Fprintf(w, "%s\n", ref)
	if len(records) == 0 {
		dimColor.Fprintln(w, "no files match")
		return nil
	}

	approved := 0
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tOWNERS\tREVIEW")
	for _, r := range records {
		if r.IsReviewed {
			approved++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.File.Filename, r.File.Status, ownersCell(r.CodeOwners), reviewedCell(r))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d of %d files approved\n", approved, len(records))
	if owners := review.UniqueOwners(records); len(owners) > 0 {
		fmt.Fprintf(w, "owners: %s\n", strings.Join(owners, ", "))
	}
	return nil
}
