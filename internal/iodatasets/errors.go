package iodatasets

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

// ConfigError creates an error for an invalid datasets.yaml.
func ConfigError(path string, err error) error {
	msg := `Invalid datasets file <em>%s</em>

<em>How to fix:</em>
  1. Check YAML syntax of the file
  2. Every dataset needs a unique key and a location`

	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatasetsConfigError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: datasets config %s: %w", fn.Name(), path, err),
	}
}

// NotFoundError creates an error for a dataset missing from the
// registry.
func NotFoundError(key string) error {
	return &gn.Error{
		Code: errcode.DatasetNotFoundError,
		Msg:  "Dataset <em>%s</em> is not registered in datasets.yaml",
		Vars: []any{key},
		Err:  fmt.Errorf("dataset %q not found", key),
	}
}

// FetchError creates an error for an unreachable dataset location.
func FetchError(key, location string, err error) error {
	return &gn.Error{
		Code: errcode.DatasetFetchError,
		Msg:  "Cannot prepare archive of <em>%s</em> from <em>%s</em>",
		Vars: []any{key, location},
		Err:  fmt.Errorf("fetch %s from %s: %w", key, location, err),
	}
}

// UnzipError creates an error for a broken zip archive.
func UnzipError(key, path string, err error) error {
	return &gn.Error{
		Code: errcode.DatasetUnzipError,
		Msg:  "Cannot extract archive of <em>%s</em> from <em>%s</em>",
		Vars: []any{key, path},
		Err:  fmt.Errorf("unzip %s for %s: %w", path, key, err),
	}
}
