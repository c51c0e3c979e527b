package config

import (
	"strings"
	"time"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptNormalizerBatchSize sets the number of records interpreted per batch.
func OptNormalizerBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Normalizer Batch Size", i) {
			c.Normalizer.BatchSize = i
		}
	}
}

// OptNormalizerCancelInterval sets the number of records between
// cancellation checks of the linking pass.
func OptNormalizerCancelInterval(i int) Option {
	return func(c *Config) {
		if isValidInt("Normalizer Cancel Interval", i) {
			c.Normalizer.CancelInterval = i
		}
	}
}

// OptNormalizerIDAlphabet sets characters of synthetic identifiers.
// The alphabet needs at least two distinct characters.
func OptNormalizerIDAlphabet(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if !isValidString("Normalizer ID Alphabet", s) {
			return
		}
		if !isValidAlphabet(s) {
			return
		}
		c.Normalizer.IDAlphabet = s
	}
}

// OptNormalizerIDReservedPrefixes sets prefixes synthetic ids avoid.
// Prefixes that reserve every character of the alphabet are ignored.
func OptNormalizerIDReservedPrefixes(ss []string) Option {
	var res []string
	for _, v := range ss {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return func(c *Config) {
		if !isValidPrefixes(c.Normalizer.IDAlphabet, res) {
			return
		}
		c.Normalizer.IDReservedPrefixes = res
	}
}

// OptNormalizerDefaultCode sets the nomenclatural code for records
// without one.
func OptNormalizerDefaultCode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Normalizer.DefaultCode", s) {
			c.Normalizer.DefaultCode = s
		}
	}
}

// OptNormalizerMatchNames toggles the names-index matching pass.
func OptNormalizerMatchNames(b bool) Option {
	return func(c *Config) {
		c.Normalizer.MatchNames = b
	}
}

// OptNormalizerExport toggles writing of SQLite export files.
func OptNormalizerExport(b bool) Option {
	return func(c *Config) {
		c.Normalizer.Export = b
	}
}

// OptNormalizerShowProgress toggles the insertion progress bar.
// Runtime-only field - not in ToOptions().
func OptNormalizerShowProgress(b bool) Option {
	return func(c *Config) {
		c.Normalizer.ShowProgress = b
	}
}

// OptSchedulerWorkers sets the number of datasets normalized in parallel.
func OptSchedulerWorkers(i int) Option {
	return func(c *Config) {
		if isValidInt("Scheduler Workers", i) {
			c.Scheduler.Workers = i
		}
	}
}

// OptSchedulerNormalizeTimeout sets the time limit of one normalizer run.
func OptSchedulerNormalizeTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Scheduler Normalize Timeout", d) {
			c.Scheduler.NormalizeTimeout = d
		}
	}
}

// OptSchedulerFetchTimeout sets the time limit of archive preparation.
func OptSchedulerFetchTimeout(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Scheduler Fetch Timeout", d) {
			c.Scheduler.FetchTimeout = d
		}
	}
}

// OptSchedulerMetricsAddr sets the listen address of the metrics endpoint.
func OptSchedulerMetricsAddr(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Scheduler Metrics Address", s) {
			c.Scheduler.MetricsAddr = s
		}
	}
}

// OptSchedulerHistory selects the import history backend.
// Valid values: "memory", "postgres".
func OptSchedulerHistory(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Scheduler.History", s) {
			c.Scheduler.History = s
		}
	}
}

// OptSchedulerNamesCacheSize sets the size of the names-index cache.
func OptSchedulerNamesCacheSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Scheduler Names Cache Size", i) {
			c.Scheduler.NamesCacheSize = i
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
