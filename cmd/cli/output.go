package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/sevigo/review-lens/internal/core"
)

var (
	titleColor    = color.New(color.FgCyan, color.Bold)
	reviewedColor = color.New(color.FgGreen)
	pendingColor  = color.New(color.FgYellow)
	dimColor      = color.New(color.FgHiBlack)
)

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
}

func ownersCell(owners []string) string {
	if len(owners) == 0 {
		return dimColor.Sprint("-")
	}
	return "@" + strings.Join(owners, ", @")
}

func reviewedCell(r core.AggregatedFileData) string {
	if r.IsReviewed {
		return reviewedColor.Sprint("approved")
	}
	return pendingColor.Sprint("pending")
}

func draftCell(pr core.PullRequest) string {
	if pr.IsDraft {
		return "draft"
	}
	return ""
}

func reviewStatusCell(state core.ReviewState) string {
	switch state {
	case "":
		return dimColor.Sprint("none")
	case core.ReviewStateApproved:
		return reviewedColor.Sprint(string(state))
	default:
		return pendingColor.Sprint(string(state))
	}
}
