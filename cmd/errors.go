package cmd

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

// InvalidFlagError creates an error for a flag value that cannot be used.
func InvalidFlagError(flag, val string) error {
	return &gn.Error{
		Code: errcode.InvalidFlagError,
		Msg:  "Flag <em>--%s</em> does not accept '%s'",
		Vars: []any{flag, val},
		Err:  fmt.Errorf("invalid value %q of flag %s", val, flag),
	}
}
