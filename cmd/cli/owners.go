package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/review-lens/internal/codeowners"
	"github.com/sevigo/review-lens/internal/config"
	"github.com/sevigo/review-lens/internal/core"
	"github.com/sevigo/review-lens/internal/gitutil"
	"github.com/sevigo/review-lens/internal/review"
)

var (
	ownersRepo     string
	ownersBase     string
	ownersExplain  bool
	ownersFormat   string
	ownersCriteria review.Criteria
)

var ownersCmd = &cobra.Command{
	Use:   "owners [paths...]",
	Short: "Resolve CODEOWNERS for the changes of a local branch",
	Long: `Resolve CODEOWNERS for the files changed on HEAD since it branched off
--base, using the CODEOWNERS file committed at HEAD. When paths are given
they are resolved instead of the branch changes. No GitHub access is needed.

A .review-lens.yml in the repository root can override the CODEOWNERS
locations and exclude directories or extensions.`,
	RunE: runOwners,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	flags := ownersCmd.Flags()
	flags.StringVar(&ownersRepo, "repo", ".", "path to the local repository")
	flags.StringVar(&ownersBase, "base", "main", "base branch or revision the changes are compared to")
	flags.BoolVar(&ownersExplain, "explain", false, "show the CODEOWNERS rule that decided each file")
	flags.AddFlagSet(filterFlags(&ownersCriteria))
	outputFlag(flags, &ownersFormat)
	rootCmd.AddCommand(ownersCmd)
}

// localOwnership is the result of a local resolution.
type localOwnership struct {
	CodeOwnersFile string                     `json:"codeOwnersFile" yaml:"codeOwnersFile"`
	Files          []core.AggregatedFileData  `json:"files" yaml:"files"`
	CodeOwners     []core.CodeOwner           `json:"codeOwners" yaml:"codeOwners"`
	MatchedRules   map[string]codeowners.Rule `json:"matchedRules,omitempty" yaml:"matchedRules,omitempty"`
}

func runOwners(cmd *cobra.Command, args []string) error {
	if err := validateFormat(ownersFormat); err != nil {
		return err
	}
	cfg, err := config.LoadLocal(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := newLogger(cfg.Logging)
	slog.SetDefault(log)

	result, err := resolveLocal(cmd, log, cfg.CodeOwners.Paths, args)
	if err != nil {
		return err
	}
	if !ownersExplain {
		result.MatchedRules = nil
	}

	out := cmd.OutOrStdout()
	if ownersFormat != formatTable {
		return writeStructured(out, ownersFormat, result)
	}
	return renderOwners(out, result, ownersExplain)
}

func resolveLocal(cmd *cobra.Command, log *slog.Logger, codeownersPaths, only []string) (localOwnership, error) {
	repoCfg, err := config.LoadRepoConfig(ownersRepo)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return localOwnership{}, err
	}

	client := gitutil.NewClient(log)
	repo, err := client.Open(ownersRepo)
	if err != nil {
		return localOwnership{}, err
	}
	changed, err := changedOrGiven(cmd, client, repo, only)
	if err != nil {
		return localOwnership{}, err
	}
	files := make([]core.FileChange, 0, len(changed))
	for _, f := range changed {
		if repoCfg.Excludes(f.Filename) {
			log.Debug("skipping excluded file", "file", f.Filename)
			continue
		}
		files = append(files, f)
	}

	content, foundAt, err := client.CodeOwnersAtHead(repo, repoCfg.CodeOwnersLocations(codeownersPaths))
	if err != nil {
		return localOwnership{}, err
	}
	if foundAt == "" {
		log.Warn("no CODEOWNERS file found at HEAD, every file is unowned")
	}

	res := codeowners.ResolveContent(files, content)
	records := review.AggregateByOwnership(files, nil, res.CodeOwners)
	return localOwnership{
		CodeOwnersFile: foundAt,
		Files:          review.Filter(records, ownersCriteria),
		CodeOwners:     res.CodeOwners,
		MatchedRules:   res.MatchedRules,
	}, nil
}

// changedOrGiven lists the branch changes, or the given paths as modified
// files.
func changedOrGiven(cmd *cobra.Command, client *gitutil.Client, repo *git.Repository, only []string) ([]core.FileChange, error) {
	if len(only) == 0 {
		return client.ChangedFiles(cmd.Context(), repo, ownersBase)
	}
	files := make([]core.FileChange, 0, len(only))
	for _, p := range only {
		files = append(files, core.FileChange{
			Filename: strings.TrimPrefix(filepath.ToSlash(filepath.Clean(p)), "./"),
			Status:   core.FileStatusModified,
		})
	}
	return files, nil
}

func renderOwners(w io.Writer, result localOwnership, explain bool) error {
	if result.CodeOwnersFile != "" {
		titleColor.Fprintf(w, "CODEOWNERS: %s\n", result.CodeOwnersFile)
	} else {
		dimColor.Fprintln(w, "no CODEOWNERS file found")
	}
	if len(result.Files) == 0 {
		dimColor.Fprintln(w, "no files match")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	if explain {
		fmt.Fprintln(tw, "FILE\tSTATUS\tOWNERS\tRULE")
	} else {
		fmt.Fprintln(tw, "FILE\tSTATUS\tOWNERS")
	}
	for _, r := range result.Files {
		if !explain {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.File.Filename, r.File.Status, ownersCell(r.CodeOwners))
			continue
		}
		rule := dimColor.Sprint("-")
		if m, ok := result.MatchedRules[r.File.Filename]; ok {
			rule = fmt.Sprintf("%s (line %d)", m.Pattern, m.Line)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.File.Filename, r.File.Status, ownersCell(r.CodeOwners), rule)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(result.CodeOwners) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "OWNER\tFILES\tEXCLUSIVE")
	for _, o := range result.CodeOwners {
		fmt.Fprintf(tw, "@%s\t%d\t%d\n", o.Username, len(o.Files), len(o.ExclusiveFiles))
	}
	return tw.Flush()
}
