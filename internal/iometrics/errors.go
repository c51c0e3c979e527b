package iometrics

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

// ServeError creates an error for a failed metrics endpoint.
func ServeError(addr string, err error) error {
	return &gn.Error{
		Code: errcode.MetricsServeError,
		Msg:  "Cannot serve metrics on <em>%s</em>",
		Vars: []any{addr},
		Err:  fmt.Errorf("metrics endpoint %s: %w", addr, err),
	}
}
