// Package config provides configuration management for GNnorm.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Normalizer: batch_size, cancel_interval, id_alphabet,
//     id_reserved_prefixes, default_code, match_names, export
//   - Scheduler: workers, normalize_timeout, fetch_timeout, metrics_addr,
//     history, names_cache_size
//   - Database: host, port, user, password, database, ssl_mode
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Normalizer.ShowProgress
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNNORM_ prefix with underscores for nesting:
//
//	GNNORM_NORMALIZER_BATCH_SIZE=10000
//	GNNORM_SCHEDULER_WORKERS=4
//	GNNORM_LOG_LEVEL=info
//	GNNORM_JOBS_NUMBER=8
package config

import (
	"runtime"
	"time"
)

// Config represents the complete GNnorm configuration.
type Config struct {
	// Normalizer contains settings of the checklist normalizer.
	Normalizer NormalizerConfig `mapstructure:"normalizer" yaml:"normalizer"`

	// Scheduler contains settings of the import scheduler.
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`

	// Database contains PostgreSQL connection settings for import history.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers used to interpret
	// records of one dataset. It is also the size of the parser pool.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// NormalizerConfig contains settings of the multi-pass normalizer.
type NormalizerConfig struct {
	// BatchSize is the number of records interpreted in parallel before
	// they are inserted into the graph.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// CancelInterval is the number of records processed between
	// cancellation checks in the linking pass.
	CancelInterval int `mapstructure:"cancel_interval" yaml:"cancel_interval"`

	// IDAlphabet is used to encode synthetic identifiers.
	IDAlphabet string `mapstructure:"id_alphabet" yaml:"id_alphabet"`

	// IDReservedPrefixes are prefixes synthetic identifiers never start with.
	IDReservedPrefixes []string `mapstructure:"id_reserved_prefixes" yaml:"id_reserved_prefixes"`

	// DefaultCode is the nomenclatural code for records without one.
	// Valid values: "botanical", "zoological", "bacterial", "virus",
	// "cultivars".
	DefaultCode string `mapstructure:"default_code" yaml:"default_code"`

	// MatchNames enables the names-index matching pass.
	MatchNames bool `mapstructure:"match_names" yaml:"match_names"`

	// Export writes finished graphs into SQLite files for the importer.
	Export bool `mapstructure:"export" yaml:"export"`

	// ShowProgress shows a progress bar during insertion. CLI only.
	ShowProgress bool `mapstructure:"show_progress" yaml:"show_progress"`
}

// SchedulerConfig contains settings of the import scheduler.
type SchedulerConfig struct {
	// Workers is the number of datasets normalized in parallel.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// NormalizeTimeout limits one normalizer run.
	NormalizeTimeout time.Duration `mapstructure:"normalize_timeout" yaml:"normalize_timeout"`

	// FetchTimeout limits preparing of an archive directory (download,
	// decompression). It is independent from NormalizeTimeout.
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`

	// MetricsAddr is the listen address of the Prometheus endpoint.
	MetricsAddr string `mapstructure:"metrics_addr" yaml:"metrics_addr"`

	// History selects where import attempts are recorded.
	// Valid values: "memory", "postgres".
	History string `mapstructure:"history" yaml:"history"`

	// NamesCacheSize is the number of cached names-index matches.
	NamesCacheSize int `mapstructure:"names_cache_size" yaml:"names_cache_size"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Normalizer: NormalizerConfig{
			BatchSize:      10_000,
			CancelInterval: 10_000,
			IDAlphabet:     "23456789ABCDEFGHJKLMNPQRSTUVWXYZ",
			DefaultCode:    "zoological",
			MatchNames:     true,
		},
		Scheduler: SchedulerConfig{
			Workers:          2,
			NormalizeTimeout: 6 * time.Hour,
			FetchTimeout:     30 * time.Minute,
			MetricsAddr:      ":9187",
			History:          "memory",
			NamesCacheSize:   100_000,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "gnnorm",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
