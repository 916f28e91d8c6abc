// Command lens shows who owns the files of a pull request and which of them
// have been reviewed.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("lens failed to run", "error", err)
		os.Exit(1)
	}
}
