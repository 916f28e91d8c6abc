package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRepoConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		rc, err := LoadRepoConfig(t.TempDir())
		require.ErrorIs(t, err, ErrConfigNotFound)
		assert.Equal(t, DefaultRepoConfig(), rc)
	})

	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		content := "codeowners_paths: [OWNERS]\nexclude_dirs: [vendor]\nexclude_exts: [lock, .snap]\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, RepoConfigFile), []byte(content), 0o600))

		rc, err := LoadRepoConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"OWNERS"}, rc.CodeOwnersPaths)
		assert.Equal(t, []string{"vendor"}, rc.ExcludeDirs)
		assert.Equal(t, []string{"lock", ".snap"}, rc.ExcludeExts)
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, RepoConfigFile), []byte("exclude_dirs: {"), 0o600))

		_, err := LoadRepoConfig(dir)
		assert.ErrorIs(t, err, ErrConfigParsing)
	})
}

func TestRepoConfig_Excludes(t *testing.T) {
	rc := &RepoConfig{ExcludeDirs: []string{"vendor", "dist/"}, ExcludeExts: []string{"lock", ".snap"}}

	tests := []struct {
		file string
		want bool
	}{
		{"vendor/lib/a.go", true},
		{"pkg/vendor/a.go", true},
		{"web/dist/app.js", true},
		{"yarn.lock", true},
		{"ui/__snapshots__/x.snap", true},
		{"vendored/a.go", false},
		{"main.go", false},
		{"Makefile", false},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, rc.Excludes(tt.file))
		})
	}
}

func TestRepoConfig_CodeOwnersLocations(t *testing.T) {
	fallback := []string{"CODEOWNERS"}
	assert.Equal(t, fallback, DefaultRepoConfig().CodeOwnersLocations(fallback))
	assert.Equal(t, []string{"x"}, (&RepoConfig{CodeOwnersPaths: []string{"x"}}).CodeOwnersLocations(fallback))
}
