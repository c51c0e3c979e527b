// Package iodatasets reads the registry of datasets and prepares archive
// directories of registered datasets from local directories or zip files.
package iodatasets

import (
	"log/slog"
	"os"

	"github.com/gnames/gnnorm/internal/iofs"
	"github.com/gnames/gnnorm/pkg/datasets"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"gopkg.in/yaml.v3"
)

// Load reads and validates datasets.yaml. Validation warnings are kept in
// the returned configuration.
func Load(path string) (*datasets.Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, iofs.ReadFileError(path, err)
	}

	var res datasets.Config
	if err = yaml.Unmarshal(bs, &res); err != nil {
		return nil, ConfigError(path, err)
	}
	if err = res.Validate(); err != nil {
		return nil, ConfigError(path, err)
	}

	for _, w := range res.Warnings {
		slog.Warn("Dataset configuration issue",
			"dataset_key", w.DatasetKey,
			"field", w.Field,
			"message", w.Message,
		)
	}
	return &res, nil
}

// Codes returns nomenclatural codes set for datasets.
func Codes(reg *datasets.Config) map[string]nomen.Code {
	res := make(map[string]nomen.Code)
	for _, d := range reg.Datasets {
		if c, ok := nomen.ParseCode(d.Code); ok {
			res[d.Key] = c
		}
	}
	return res
}
