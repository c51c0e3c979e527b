package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

func OpenError(dir string, err error) error {
	msg := "Cannot open checkpoint store at <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open store %s: %w", fn.Name(), dir, err),
	}
}

func WriteError(pass string, err error) error {
	msg := "Cannot write checkpoint after <em>%s</em> pass"
	vars := []any{pass}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write checkpoint %s: %w", fn.Name(), pass, err),
	}
}

func ReadError(err error) error {
	msg := "Cannot read checkpoint"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot read checkpoint: %w", fn.Name(), err),
	}
}

func RemoveError(dir string, err error) error {
	msg := "Cannot remove checkpoint store <em>%s</em>"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.RemoveDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot remove %s: %w", dir, err),
	}
}
