package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, ShowProgress).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var d time.Duration

	i = c.Normalizer.BatchSize
	if i > 0 {
		res = append(res, OptNormalizerBatchSize(i))
	}
	i = c.Normalizer.CancelInterval
	if i > 0 {
		res = append(res, OptNormalizerCancelInterval(i))
	}
	s = c.Normalizer.IDAlphabet
	if s != "" {
		res = append(res, OptNormalizerIDAlphabet(s))
	}
	if len(c.Normalizer.IDReservedPrefixes) > 0 {
		res = append(res,
			OptNormalizerIDReservedPrefixes(c.Normalizer.IDReservedPrefixes))
	}
	s = c.Normalizer.DefaultCode
	if s != "" {
		res = append(res, OptNormalizerDefaultCode(s))
	}
	res = append(res,
		OptNormalizerMatchNames(c.Normalizer.MatchNames),
		OptNormalizerExport(c.Normalizer.Export),
	)

	i = c.Scheduler.Workers
	if i > 0 {
		res = append(res, OptSchedulerWorkers(i))
	}
	d = c.Scheduler.NormalizeTimeout
	if d > 0 {
		res = append(res, OptSchedulerNormalizeTimeout(d))
	}
	d = c.Scheduler.FetchTimeout
	if d > 0 {
		res = append(res, OptSchedulerFetchTimeout(d))
	}
	s = c.Scheduler.MetricsAddr
	if s != "" {
		res = append(res, OptSchedulerMetricsAddr(s))
	}
	s = c.Scheduler.History
	if s != "" {
		res = append(res, OptSchedulerHistory(s))
	}
	i = c.Scheduler.NamesCacheSize
	if i > 0 {
		res = append(res, OptSchedulerNamesCacheSize(i))
	}

	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration) bool {
	res := d > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive duration, ignoring %s", name, d)
	}
	return res
}

func isValidAlphabet(s string) bool {
	seen := make(map[rune]struct{})
	for _, r := range s {
		seen[r] = struct{}{}
	}
	res := len(seen) > 1
	if !res {
		gn.Warn("<em>ID Alphabet</em> needs at least two distinct characters, ignoring '%s'", s)
	}
	return res
}

// isValidPrefixes rejects reserved prefixes that leave no first character
// for synthetic ids.
func isValidPrefixes(alphabet string, prefixes []string) bool {
	single := make(map[rune]struct{})
	for _, v := range prefixes {
		if r := []rune(v); len(r) == 1 {
			single[r[0]] = struct{}{}
		}
	}
	for _, r := range alphabet {
		if _, ok := single[r]; !ok {
			return true
		}
	}
	gn.Warn("<em>ID Reserved Prefixes</em> cover the whole alphabet, ignoring %v", prefixes)
	return false
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Normalizer.DefaultCode": {"botanical": s, "zoological": s,
			"bacterial": s, "virus": s, "cultivars": s},
		"Scheduler.History": {"memory": s, "postgres": s},
		"Log.Level":         {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":        {"json": s, "text": s},
		"Log.Destination":   {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
