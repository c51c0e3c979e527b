package graph

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

func GraphClosedError(datasetKey string) error {
	msg := "Graph of dataset <em>%s</em> is closed for writing"
	vars := []any{datasetKey}
	return &gn.Error{
		Code: errcode.GraphClosedError,
		Msg:  msg,
		Vars: vars,
		Err:  errors.New("graph is closed"),
	}
}

func NodeNotFoundError(datasetKey string, idx int) error {
	msg := "Node <em>%d</em> does not exist in dataset <em>%s</em>"
	vars := []any{idx, datasetKey}
	return &gn.Error{
		Code: errcode.GraphNodeNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("node %d not found", idx),
	}
}
