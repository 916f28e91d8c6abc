package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		log       func(l *slog.Logger)
		checkFunc func(t *testing.T, output string)
	}{
		{
			name:   "text logger at info",
			config: Config{Level: "info", Format: "text"},
			log:    func(l *slog.Logger) { l.Info("test message", "pr", 7) },
			checkFunc: func(t *testing.T, output string) {
				assert.Contains(t, output, "level=INFO")
				assert.Contains(t, output, `msg="test message"`)
				assert.Contains(t, output, "pr=7")
			},
		},
		{
			name:   "json logger at debug",
			config: Config{Level: "debug", Format: "JSON"},
			log:    func(l *slog.Logger) { l.Debug("test message", "owner", "octo") },
			checkFunc: func(t *testing.T, output string) {
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(output), &entry))
				assert.Equal(t, "DEBUG", entry["level"])
				assert.Equal(t, "test message", entry["msg"])
				assert.Equal(t, "octo", entry["owner"])
			},
		},
		{
			name:   "debug suppressed at warn",
			config: Config{Level: "warn"},
			log:    func(l *slog.Logger) { l.Debug("hidden"); l.Info("hidden") },
			checkFunc: func(t *testing.T, output string) {
				assert.Empty(t, output)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLogger(tt.config, &buf))
			tt.checkFunc(t, buf.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewLogger_FileOutput(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.log")
	l := NewLogger(Config{Level: "info", Output: "file", File: name}, nil)
	l.Info("written to file")

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
