package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sevigo/review-lens/internal/review"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// filterFlags returns the flags that fill c.
func filterFlags(c *review.Criteria) *pflag.FlagSet {
	fs := pflag.NewFlagSet("filter", pflag.ContinueOnError)
	fs.StringVar(&c.Owner, "owner", "", "only files owned by this user or team (without @)")
	fs.StringVar((*string)(&c.Ownership), "ownership", string(review.OwnershipAll),
		"with --owner: all or exclusive (files where the owner is the only owner)")
	fs.StringVar((*string)(&c.Status), "status", string(review.StatusAll), "all, reviewed or unreviewed")
	return fs
}

func outputFlag(fs *pflag.FlagSet, target *string) {
	fs.StringVarP(target, "output", "o", formatTable, "output format: table, json or yaml")
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q, expected table, json or yaml", format)
	}
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		slog.Error("Error binding flag", "flag", flag.Name, "error", err)
		os.Exit(1)
	}
}
