package iologger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnnorm/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := t.TempDir()
	path := filepath.Join(dir, LogFile)
	cfg := config.LogConfig{Format: "text", Level: "warn", Destination: "file"}

	closer, err := Init(dir, cfg, false)
	require.NoError(t, err)
	slog.Info("hidden")
	slog.Warn("first", "dataset_key", "col")
	require.NoError(t, closer())

	closer, err = Init(dir, cfg, true)
	require.NoError(t, err)
	slog.Warn("second")
	require.NoError(t, closer())

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	log := string(bs)
	assert.NotContains(t, log, "hidden")
	assert.Contains(t, log, "dataset_key=col")
	assert.Contains(t, log, "second")

	// without append the file starts fresh
	closer, err = Init(dir, cfg, false)
	require.NoError(t, err)
	require.NoError(t, closer())
	bs, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, bs)
}

func TestInitBadDir(t *testing.T) {
	cfg := config.LogConfig{Destination: "file"}
	_, err := Init(filepath.Join(t.TempDir(), "missing"), cfg, false)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, v := range tests {
		assert.Equal(t, v.want, parseLevel(v.in), v.in)
	}
}
