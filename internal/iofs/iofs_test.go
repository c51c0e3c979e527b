package iofs

import (
	"os"
	"testing"

	"github.com/gnames/gnnorm/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()

	// repeated calls are fine
	for range 2 {
		require.NoError(t, EnsureDirs(home))
	}

	for _, dir := range []string{
		config.ConfigDir(home),
		config.CacheDir(home),
		config.LogDir(home),
		config.ExportDir(home),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}

func TestEnsureFiles(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureDirs(home))
	require.NoError(t, EnsureConfigFile(home))
	require.NoError(t, EnsureDatasetsFile(home))

	bs, err := os.ReadFile(config.ConfigFilePath(home))
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(bs))

	// existing files are not overwritten
	path := config.DatasetsFilePath(home)
	require.NoError(t, os.WriteFile(path, []byte("datasets: []\n"), 0644))
	require.NoError(t, EnsureDatasetsFile(home))
	bs, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "datasets: []\n", string(bs))
}

func TestTemplatesParse(t *testing.T) {
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(ConfigYAML), &cfg))
	assert.Equal(t, "memory", cfg.Scheduler.History)
	assert.Equal(t, 10000, cfg.Normalizer.BatchSize)

	var ds struct {
		Datasets []map[string]any `yaml:"datasets"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(DatasetsYAML), &ds))
	assert.Empty(t, ds.Datasets)
}
