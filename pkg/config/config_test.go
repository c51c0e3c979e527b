package config_test

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gnames/gnnorm/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gnnorm"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "gnnorm"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "gnnorm", "logs"),
		},
		{
			msg: "datasets file",
			fn:  config.DatasetsFilePath,
			res: filepath.Join(tempHome, ".config", "gnnorm", "datasets.yaml"),
		},
		{
			msg: "export dir",
			fn:  config.ExportDir,
			res: filepath.Join(tempHome, ".cache", "gnnorm", "export"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}

	assert.Equal(t,
		filepath.Join(tempHome, ".cache", "gnnorm", "store", "col"),
		config.StoreDir(tempHome, "col"),
	)
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, 10_000, cfg.Normalizer.BatchSize)
	assert.Equal(t, 10_000, cfg.Normalizer.CancelInterval)
	assert.Equal(t, "zoological", cfg.Normalizer.DefaultCode)
	assert.True(t, cfg.Normalizer.MatchNames)
	assert.False(t, cfg.Normalizer.Export)

	assert.Equal(t, 2, cfg.Scheduler.Workers)
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.NormalizeTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.FetchTimeout)
	assert.Equal(t, "memory", cfg.Scheduler.History)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestIntOptions(t *testing.T) {
	tests := []struct {
		name     string
		opt      func(int) config.Option
		get      func(*config.Config) int
		input    int
		expected int
	}{
		{
			name:     "batch size",
			opt:      config.OptNormalizerBatchSize,
			get:      func(c *config.Config) int { return c.Normalizer.BatchSize },
			input:    500,
			expected: 500,
		},
		{
			name:     "zero batch size is ignored",
			opt:      config.OptNormalizerBatchSize,
			get:      func(c *config.Config) int { return c.Normalizer.BatchSize },
			input:    0,
			expected: 10_000,
		},
		{
			name:     "cancel interval",
			opt:      config.OptNormalizerCancelInterval,
			get:      func(c *config.Config) int { return c.Normalizer.CancelInterval },
			input:    7,
			expected: 7,
		},
		{
			name:     "negative workers are ignored",
			opt:      config.OptSchedulerWorkers,
			get:      func(c *config.Config) int { return c.Scheduler.Workers },
			input:    -1,
			expected: 2,
		},
		{
			name:     "jobs number",
			opt:      config.OptJobsNumber,
			get:      func(c *config.Config) int { return c.JobsNumber },
			input:    3,
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt(tt.input)})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestEnumOptions(t *testing.T) {
	tests := []struct {
		name     string
		opt      config.Option
		get      func(*config.Config) string
		expected string
	}{
		{
			name:     "default code",
			opt:      config.OptNormalizerDefaultCode(" Botanical "),
			get:      func(c *config.Config) string { return c.Normalizer.DefaultCode },
			expected: "botanical",
		},
		{
			name:     "bad default code",
			opt:      config.OptNormalizerDefaultCode("klingon"),
			get:      func(c *config.Config) string { return c.Normalizer.DefaultCode },
			expected: "zoological",
		},
		{
			name:     "history",
			opt:      config.OptSchedulerHistory("POSTGRES"),
			get:      func(c *config.Config) string { return c.Scheduler.History },
			expected: "postgres",
		},
		{
			name:     "log level",
			opt:      config.OptLogLevel("debug"),
			get:      func(c *config.Config) string { return c.Log.Level },
			expected: "debug",
		},
		{
			name:     "bad log format",
			opt:      config.OptLogFormat("xml"),
			get:      func(c *config.Config) string { return c.Log.Format },
			expected: "json",
		},
		{
			name:     "ssl mode",
			opt:      config.OptDatabaseSSLMode("require"),
			get:      func(c *config.Config) string { return c.Database.SSLMode },
			expected: "require",
		},
		{
			name:     "alphabet",
			opt:      config.OptNormalizerIDAlphabet("ABC"),
			get:      func(c *config.Config) string { return c.Normalizer.IDAlphabet },
			expected: "ABC",
		},
		{
			name:     "one letter alphabet",
			opt:      config.OptNormalizerIDAlphabet("AAAA"),
			get:      func(c *config.Config) string { return c.Normalizer.IDAlphabet },
			expected: "23456789ABCDEFGHJKLMNPQRSTUVWXYZ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestReservedPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		prefixes []string
		expected []string
	}{
		{"some prefixes", "ABC", []string{"A", "BC"}, []string{"A", "BC"}},
		{"all single characters", "AB", []string{"A", "B"}, nil},
		{"long prefixes only", "AB", []string{"AA", "BB"}, []string{"AA", "BB"}},
		{"whole default alphabet", "", []string{
			"2", "3", "4", "5", "6", "7", "8", "9", "A", "B", "C", "D", "E",
			"F", "G", "H", "J", "K", "L", "M", "N", "P", "Q", "R", "S", "T",
			"U", "V", "W", "X", "Y", "Z",
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			var opts []config.Option
			if tt.alphabet != "" {
				opts = append(opts, config.OptNormalizerIDAlphabet(tt.alphabet))
			}
			opts = append(opts, config.OptNormalizerIDReservedPrefixes(tt.prefixes))
			cfg.Update(opts)
			assert.Equal(t, tt.expected, cfg.Normalizer.IDReservedPrefixes)
		})
	}
}

func TestDurationOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptSchedulerNormalizeTimeout(time.Minute),
		config.OptSchedulerFetchTimeout(0),
	})
	assert.Equal(t, time.Minute, cfg.Scheduler.NormalizeTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.FetchTimeout)
}

func TestToOptions(t *testing.T) {
	src := config.New()
	src.Update([]config.Option{
		config.OptNormalizerBatchSize(42),
		config.OptNormalizerIDReservedPrefixes([]string{" X ", ""}),
		config.OptNormalizerMatchNames(false),
		config.OptNormalizerExport(true),
		config.OptNormalizerShowProgress(true),
		config.OptSchedulerWorkers(5),
		config.OptDatabaseHost("db"),
		config.OptHomeDir("/tmp/home"),
	})

	dst := config.New()
	dst.Update(src.ToOptions())
	assert.Equal(t, 42, dst.Normalizer.BatchSize)
	assert.Equal(t, []string{"X"}, dst.Normalizer.IDReservedPrefixes)
	assert.False(t, dst.Normalizer.MatchNames)
	assert.True(t, dst.Normalizer.Export)
	assert.Equal(t, 5, dst.Scheduler.Workers)
	assert.Equal(t, "db", dst.Database.Host)

	// runtime-only fields are not persisted
	assert.False(t, dst.Normalizer.ShowProgress)
	assert.Empty(t, dst.HomeDir)
}
