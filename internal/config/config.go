// Package config loads review-lens settings from config files, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/review-lens/internal/logger"
)

// EnvPrefix is prepended to every environment variable, e.g.
// REVIEW_LENS_GITHUB_TOKEN for github.token.
const EnvPrefix = "REVIEW_LENS"

// DefaultCodeOwnersPaths are the locations GitHub itself checks, in order.
var DefaultCodeOwnersPaths = []string{".github/CODEOWNERS", "CODEOWNERS", "docs/CODEOWNERS"}

// Config holds the application's configuration values.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    logger.Config    `mapstructure:"logging"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	CodeOwners CodeOwnersConfig `mapstructure:"codeowners"`
	Review     ReviewConfig     `mapstructure:"review"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// GitHubConfig selects the authentication mode: a token, or the full
// app_id/installation_id/private_key_path triple.
type GitHubConfig struct {
	Token          string        `mapstructure:"token"`
	AppID          int64         `mapstructure:"app_id"`
	InstallationID int64         `mapstructure:"installation_id"`
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	BaseURL        string        `mapstructure:"base_url"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type CodeOwnersConfig struct {
	Paths []string `mapstructure:"paths"`
}

type ReviewConfig struct {
	WithComments bool `mapstructure:"with_comments"`
}

// UsesApp reports whether GitHub App authentication is configured.
func (g GitHubConfig) UsesApp() bool {
	return g.AppID != 0 || g.InstallationID != 0 || g.PrivateKeyPath != ""
}

// Validate checks the GitHub section.
func (g GitHubConfig) Validate() error {
	if g.UsesApp() {
		if g.AppID == 0 || g.InstallationID == 0 || g.PrivateKeyPath == "" {
			return errors.New("github app authentication needs app_id, installation_id and private_key_path")
		}
	} else if g.Token == "" {
		return errors.New("either github.token or github app credentials must be set")
	}
	if g.MaxConcurrency < 1 {
		return fmt.Errorf("github.max_concurrency must be at least 1, got %d", g.MaxConcurrency)
	}
	if g.RetryAttempts < 1 {
		return fmt.Errorf("github.retry_attempts must be at least 1, got %d", g.RetryAttempts)
	}
	if g.RequestTimeout <= 0 {
		return fmt.Errorf("github.request_timeout must be positive, got %s", g.RequestTimeout)
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if err := c.GitHub.Validate(); err != nil {
		return err
	}
	if len(c.CodeOwners.Paths) == 0 {
		return errors.New("codeowners.paths must list at least one location")
	}
	return nil
}

// SetDefaults registers every key with its default value. Keys must be known
// to viper for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.file", "")

	v.SetDefault("github.token", "")
	v.SetDefault("github.app_id", 0)
	v.SetDefault("github.installation_id", 0)
	v.SetDefault("github.private_key_path", "")
	v.SetDefault("github.base_url", "")
	v.SetDefault("github.max_concurrency", 5)
	v.SetDefault("github.retry_attempts", 3)
	v.SetDefault("github.request_timeout", 30*time.Second)

	v.SetDefault("codeowners.paths", DefaultCodeOwnersPaths)

	v.SetDefault("review.with_comments", false)
}

// LoadConfig reads configuration from the global viper instance, which the
// CLI also binds its flags to.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load reads configuration from a config.yaml in the working directory (if
// present) and REVIEW_LENS_* environment variables, applies defaults and
// validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg, err := read(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadLocal is Load without the GitHub credential checks, for commands that
// only read a local checkout.
func LoadLocal(v *viper.Viper) (*Config, error) {
	cfg, err := read(v)
	if err != nil {
		return nil, err
	}
	if len(cfg.CodeOwners.Paths) == 0 {
		return nil, errors.New("invalid configuration: codeowners.paths must list at least one location")
	}
	return cfg, nil
}

func read(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &cfg, nil
}
