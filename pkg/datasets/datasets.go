// Package datasets provides the schema and validation of datasets.yaml,
// the registry of checklist archives known to the import scheduler.
package datasets

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

// Config represents the complete datasets.yaml configuration file.
type Config struct {
	// Datasets is the list of registered checklists.
	Datasets []Dataset `yaml:"datasets"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	DatasetKey string // Key of the dataset
	Field      string // Field name that has the issue
	Message    string // Description of the issue
	Suggestion string // How to fix it
}

// Dataset is one registered checklist.
type Dataset struct {
	// Key identifies the dataset. It is used for store and export file
	// names, so it should be short and file system safe.
	Key string `yaml:"key"`

	// Title is a human readable name of the dataset.
	Title string `yaml:"title,omitempty"`

	// Location is a directory with an unpacked archive or a path to a zip
	// file. Leading ~ is expanded to the home directory.
	Location string `yaml:"location"`

	// Code is the default nomenclatural code of the dataset, overrides
	// the global default.
	Code string `yaml:"code,omitempty"`

	// Priority orders queued imports, higher goes first.
	Priority int `yaml:"priority,omitempty"`

	// Schedule is a standard five field cron expression for routine
	// imports. Empty means the dataset is only imported on request.
	Schedule string `yaml:"schedule,omitempty"`
}

// IsZip reports whether the location points to a zipped archive.
func (d *Dataset) IsZip() bool {
	return strings.HasSuffix(strings.ToLower(d.Location), ".zip")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("no datasets specified in configuration")
	}

	seen := make(map[string]struct{})
	for i := range c.Datasets {
		d := &c.Datasets[i]
		warnings, err := d.Validate()
		if err != nil {
			return fmt.Errorf("dataset %d: %w", i+1, err)
		}
		if _, ok := seen[d.Key]; ok {
			return fmt.Errorf("dataset %d: duplicate key '%s'", i+1, d.Key)
		}
		seen[d.Key] = struct{}{}
		c.Warnings = append(c.Warnings, warnings...)
	}
	return nil
}

// Validate checks a single dataset. File system checks are deferred to the
// I/O layer.
func (d *Dataset) Validate() ([]ValidationWarning, error) {
	var warnings []ValidationWarning
	d.Key = strings.TrimSpace(d.Key)
	if d.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	if strings.ContainsAny(d.Key, `/\ `) {
		return nil, fmt.Errorf("key '%s' cannot contain slashes or spaces", d.Key)
	}
	if strings.TrimSpace(d.Location) == "" {
		return nil, fmt.Errorf("location is required")
	}

	if d.Schedule != "" {
		if _, err := cron.ParseStandard(d.Schedule); err != nil {
			return nil, fmt.Errorf("invalid schedule '%s': %w", d.Schedule, err)
		}
	}

	if d.Code != "" {
		codes := []string{"botanical", "zoological", "bacterial", "virus", "cultivars"}
		if !slices.Contains(codes, strings.ToLower(d.Code)) {
			warnings = append(warnings, ValidationWarning{
				DatasetKey: d.Key,
				Field:      "code",
				Message:    fmt.Sprintf("unknown nomenclatural code '%s'", d.Code),
				Suggestion: "Use one of: " + strings.Join(codes, ", "),
			})
			d.Code = ""
		}
	}

	if d.Priority < 0 {
		warnings = append(warnings, ValidationWarning{
			DatasetKey: d.Key,
			Field:      "priority",
			Message:    "negative priority puts the dataset behind all others",
			Suggestion: "Use 0 for routine datasets and positive numbers for urgent ones",
		})
	}
	return warnings, nil
}

// Filter returns datasets with the given keys, in the order of keys.
// Empty keys return all datasets. Unknown keys are returned separately.
func (c *Config) Filter(keys []string) ([]Dataset, []string) {
	if len(keys) == 0 {
		return c.Datasets, nil
	}
	var res []Dataset
	var missing []string
	for _, k := range keys {
		idx := slices.IndexFunc(c.Datasets, func(d Dataset) bool {
			return d.Key == k
		})
		if idx < 0 {
			missing = append(missing, k)
			continue
		}
		res = append(res, c.Datasets[idx])
	}
	return res, missing
}

// Get finds a dataset by key.
func (c *Config) Get(key string) (Dataset, bool) {
	for _, v := range c.Datasets {
		if v.Key == key {
			return v, true
		}
	}
	return Dataset{}, false
}
