package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/review-lens/internal/core"
	"github.com/sevigo/review-lens/internal/wire"
)

var (
	inboxFiles  bool
	inboxFormat string
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List the open pull requests that request your review",
	Long: `List the open pull requests that request a review from the authenticated
user, with your latest review on each.

With --files every pull request is expanded into its changed files, owners
matched by CODEOWNERS pattern.`,
	Args: cobra.NoArgs,
	RunE: runInbox,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	inboxCmd.Flags().BoolVar(&inboxFiles, "files", false, "include the changed files of every pull request")
	outputFlag(inboxCmd.Flags(), &inboxFormat)
	rootCmd.AddCommand(inboxCmd)
}

func runInbox(cmd *cobra.Command, _ []string) error {
	if err := validateFormat(inboxFormat); err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	svc, err := wire.InitializeService(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	out := cmd.OutOrStdout()
	if inboxFiles {
		data, err := svc.InboxReviewData(ctx)
		if err != nil {
			return fmt.Errorf("failed to load inbox review data: %w", err)
		}
		if inboxFormat != formatTable {
			return writeStructured(out, inboxFormat, data)
		}
		for i, d := range data {
			if i > 0 {
				fmt.Fprintln(out)
			}
			if err := renderReview(out, d.PullRequest.Ref(), d.Files); err != nil {
				return err
			}
		}
		return nil
	}

	prs, err := svc.PullRequestsToReview(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pull requests: %w", err)
	}
	if inboxFormat != formatTable {
		return writeStructured(out, inboxFormat, prs)
	}
	return renderInbox(out, prs)
}

func renderInbox(w io.Writer, prs []core.PullRequest) error {
	if len(prs) == 0 {
		dimColor.Fprintln(w, "No pull requests are waiting for your review.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PULL REQUEST\tTITLE\tAUTHOR\tDRAFT\tUPDATED\tYOUR REVIEW")
	for _, pr := range prs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			pr.Ref(),
			pr.Title,
			pr.Author,
			draftCell(pr),
			pr.UpdatedAt.Format(time.RFC822),
			reviewStatusCell(pr.ReviewStatus),
		)
	}
	return tw.Flush()
}
