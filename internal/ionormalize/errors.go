package ionormalize

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

func InsertError(datasetKey string, recKey int64, err error) error {
	msg := "Cannot insert record <em>%d</em> of <em>%s</em>"
	vars := []any{recKey, datasetKey}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NormalizeInsertError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot insert record %d of %s: %w",
			fn.Name(), recKey, datasetKey, err),
	}
}

// ParseError is returned when not a single name of a dataset could be
// parsed.
func ParseError(datasetKey string, names int) error {
	msg := "None of <em>%d</em> names of <em>%s</em> could be parsed"
	vars := []any{names, datasetKey}
	return &gn.Error{
		Code: errcode.NormalizeParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("universal parse failure of %d names in %s", names, datasetKey),
	}
}

func LinkError(datasetKey, id string, err error) error {
	msg := "Cannot link <em>%s</em> in <em>%s</em>"
	vars := []any{id, datasetKey}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NormalizeLinkError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot link %q in %s: %w", fn.Name(), id, datasetKey, err),
	}
}

func BasionymError(datasetKey, id string, err error) error {
	msg := "Cannot resolve basionym of <em>%s</em> in <em>%s</em>"
	vars := []any{id, datasetKey}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NormalizeBasionymError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot resolve basionym %q in %s: %w",
			fn.Name(), id, datasetKey, err),
	}
}

func CheckError(datasetKey string, err error) error {
	msg := "Normalized graph of <em>%s</em> is inconsistent"
	vars := []any{datasetKey}
	return &gn.Error{
		Code: errcode.NormalizeCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("graph check of %s failed: %w", datasetKey, err),
	}
}

// CanceledError reports a run stopped by its context. It is not a failure.
func CanceledError(datasetKey, pass string) error {
	msg := "Normalization of <em>%s</em> canceled during <em>%s</em> pass"
	vars := []any{datasetKey, pass}
	return &gn.Error{
		Code: errcode.NormalizeCanceledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("normalization of %s canceled in %s pass", datasetKey, pass),
	}
}
