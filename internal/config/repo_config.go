package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// RepoConfigFile is the optional per-repository settings file read in local
// mode.
const RepoConfigFile = ".review-lens.yml"

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
)

// RepoConfig represents the structure of the .review-lens.yml file.
type RepoConfig struct {
	// Locations searched for CODEOWNERS, overriding codeowners.paths.
	CodeOwnersPaths []string `yaml:"codeowners_paths"`

	// Changed files under any of these directory names are left out.
	// Example: ["vendor", "dist"]
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Changed files with these extensions are left out. The leading dot is
	// optional. Example: [".lock", "snap"]
	ExcludeExts []string `yaml:"exclude_exts"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		CodeOwnersPaths: []string{},
		ExcludeDirs:     []string{},
		ExcludeExts:     []string{},
	}
}

// LoadRepoConfig loads and parses the .review-lens.yml file from a repository
// path. A missing file yields the defaults together with ErrConfigNotFound.
func LoadRepoConfig(repoPath string) (*RepoConfig, error) {
	configPath := filepath.Join(repoPath, RepoConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRepoConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", RepoConfigFile, err)
	}

	config := DefaultRepoConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	return config, nil
}

// Excludes reports whether a repository-relative filename is filtered out.
func (rc *RepoConfig) Excludes(filename string) bool {
	dirs := strings.Split(path.Dir(filename), "/")
	for _, d := range rc.ExcludeDirs {
		if slices.Contains(dirs, strings.Trim(d, "/")) {
			return true
		}
	}
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		return false
	}
	for _, e := range rc.ExcludeExts {
		if strings.TrimPrefix(e, ".") == ext {
			return true
		}
	}
	return false
}

// CodeOwnersLocations returns the repository override when present, else
// fallback.
func (rc *RepoConfig) CodeOwnersLocations(fallback []string) []string {
	if len(rc.CodeOwnersPaths) > 0 {
		return rc.CodeOwnersPaths
	}
	return fallback
}
