// Package ioarchive reads checklist archives (ACEF, DWCA, ColDP) from an
// unpacked directory and turns their rows into one uniform stream of
// verbatim records.
package ioarchive

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnnorm/pkg/ent/verbatim"
)

// Format is the layout of an archive directory.
type Format uint8

const (
	UnknownFormat Format = iota
	ACEF
	DWCA
	ColDP
)

func (f Format) String() string {
	switch f {
	case ACEF:
		return "ACEF"
	case DWCA:
		return "DWCA"
	case ColDP:
		return "ColDP"
	}
	return "unknown"
}

// Reader streams records of one archive. Names come before usages, usages
// before name relations and extension rows.
type Reader interface {
	Format() Format
	// Read sends records to the channel and closes it when done. It
	// returns on the first fatal error or when the context is canceled.
	Read(ctx context.Context, ch chan<- *verbatim.Record) error
}

// New detects the format of an archive directory and returns its reader.
func New(dir string) (Reader, error) {
	files, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	f := detect(files)
	slog.Info("Detected archive format", "dir", dir, "format", f.String())
	switch f {
	case ACEF:
		return &acefReader{dir: dir, files: files}, nil
	case DWCA:
		return &dwcaReader{dir: dir, files: files}, nil
	case ColDP:
		return &coldpReader{dir: dir, files: files}, nil
	}
	return nil, FormatError(dir)
}

// Detect returns the format of an archive directory.
func Detect(dir string) (Format, error) {
	files, err := listFiles(dir)
	if err != nil {
		return UnknownFormat, err
	}
	f := detect(files)
	if f == UnknownFormat {
		return f, FormatError(dir)
	}
	return f, nil
}

func detect(files fileIndex) Format {
	if files.has("meta.xml") {
		return DWCA
	}
	if files.has("acceptedspecies.txt") {
		return ACEF
	}
	for _, v := range []string{"nameusage", "name"} {
		if _, ok := files.entity(v); ok {
			return ColDP
		}
	}
	if files.has("taxa.txt") || files.has("taxon.txt") {
		return DWCA
	}
	return UnknownFormat
}

// fileIndex maps lower-cased file names to their real names.
type fileIndex map[string]string

func listFiles(dir string) (fileIndex, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, DirError(dir, err)
	}
	if !st.IsDir() {
		return nil, DirError(dir, os.ErrInvalid)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, DirError(dir, err)
	}
	res := make(fileIndex)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		res[strings.ToLower(e.Name())] = e.Name()
	}
	return res, nil
}

func (fi fileIndex) has(name string) bool {
	_, ok := fi[strings.ToLower(name)]
	return ok
}

// path returns the full path of a file, matching its name case-insensitively.
func (fi fileIndex) path(dir, name string) (string, bool) {
	fname, ok := fi[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return filepath.Join(dir, fname), true
}

// entity finds a ColDP entity file, it may have tsv, csv or txt extension.
func (fi fileIndex) entity(name string) (string, bool) {
	for _, ext := range []string{".tsv", ".csv", ".txt"} {
		if fname, ok := fi[strings.ToLower(name)+ext]; ok {
			return fname, true
		}
	}
	return "", false
}
