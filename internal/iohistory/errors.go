package iohistory

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

// WriteError creates an error for a failed history update.
func WriteError(datasetKey string, err error) error {
	return &gn.Error{
		Code: errcode.HistoryWriteError,
		Msg:  "Cannot record import attempt of <em>%s</em>",
		Vars: []any{datasetKey},
		Err:  fmt.Errorf("history write %q: %w", datasetKey, err),
	}
}

// ReadError creates an error for a failed history lookup.
func ReadError(datasetKey string, err error) error {
	return &gn.Error{
		Code: errcode.HistoryReadError,
		Msg:  "Cannot read import history of <em>%s</em>",
		Vars: []any{datasetKey},
		Err:  fmt.Errorf("history read %q: %w", datasetKey, err),
	}
}
