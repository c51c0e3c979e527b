package ioarchive

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/pkg/errcode"
)

func DirError(dir string, err error) error {
	msg := "Cannot read archive directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ArchiveDirError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read directory %s: %w", fn.Name(), dir, err),
	}
}

// FormatError is returned when a directory is neither ACEF, DWCA nor
// ColDP.
func FormatError(dir string) error {
	msg := `Cannot detect archive format of <em>%s</em>

<em>Expected one of:</em>
  - ACEF: AcceptedSpecies.txt
  - DWCA: meta.xml or taxa.txt
  - ColDP: NameUsage.tsv, or Name.tsv with Taxon.tsv`

	return &gn.Error{
		Code: errcode.ArchiveFormatError,
		Msg:  msg,
		Vars: []any{dir},
		Err:  fmt.Errorf("unknown archive format in %s", dir),
	}
}

func MissingFileError(dir, file string) error {
	msg := "Mandatory file <em>%s</em> is missing in <em>%s</em>"
	vars := []any{file, dir}
	return &gn.Error{
		Code: errcode.ArchiveMissingFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("file %s is missing in %s", file, dir),
	}
}

func ReadError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ArchiveReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %s: %w", fn.Name(), path, err),
	}
}

func MetaError(path, reason string) error {
	msg := "Invalid archive descriptor <em>%s</em>: %s"
	vars := []any{path, reason}
	return &gn.Error{
		Code: errcode.ArchiveMetaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid descriptor %s: %s", path, reason),
	}
}
