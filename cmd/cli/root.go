package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/review-lens/internal/config"
	"github.com/sevigo/review-lens/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "lens tracks CODEOWNERS ownership and review progress of pull requests.",
	Long: `lens resolves the CODEOWNERS of every file changed by a pull request and
joins them with the reviews submitted so far.

Settings come from config.yaml, REVIEW_LENS_* environment variables and flags.`,
	SilenceUsage: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	flags.StringP("github-token", "t", "", "GitHub token")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	bindFlag("github.token", flags.Lookup("github-token"))
	bindFlag("logging.level", flags.Lookup("log-level"))
}

// initConfig points viper at an explicit config file when one was given.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// newLogger keeps stdout free for command output.
func newLogger(cfg logger.Config) *slog.Logger {
	if cfg.Output == "file" {
		return logger.NewLogger(cfg, nil)
	}
	return logger.NewLogger(cfg, os.Stderr)
}

// loadConfig loads the full configuration, GitHub credentials included.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := newLogger(cfg.Logging)
	slog.SetDefault(log)
	return cfg, log, nil
}
