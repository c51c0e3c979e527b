package ioarchive

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
)

// ctxInterval is the number of rows between context checks.
const ctxInterval = 10_000

// table describes a delimited text file.
type table struct {
	path  string
	delim rune
	// quoted files may enclose fields in double quotes.
	quoted bool
	// skip is the number of header lines, the first of them is passed to
	// the header callback.
	skip int
}

// readTable calls fn for every data row with its 1-based line number.
func readTable(
	ctx context.Context,
	t table,
	header func([]string) error,
	fn func(line int, row []string) error,
) error {
	f, err := os.Open(t.path)
	if err != nil {
		return ReadError(t.path, err)
	}
	defer f.Close()

	next := plainRows(f, t.delim)
	if t.quoted {
		next = quotedRows(f, t.delim)
	}

	var count int
	for {
		line, row, err := next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return ReadError(t.path, err)
		}
		count++
		if count%ctxInterval == 0 {
			if err = ctx.Err(); err != nil {
				return err
			}
		}
		if count <= t.skip {
			if count == 1 && header != nil {
				if err = header(row); err != nil {
					return err
				}
			}
			continue
		}
		if err = fn(line, row); err != nil {
			return err
		}
	}
}

type rowFunc func() (int, []string, error)

func quotedRows(r io.Reader, delim rune) rowFunc {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return func() (int, []string, error) {
		row, err := cr.Read()
		if err != nil {
			return 0, nil, err
		}
		line, _ := cr.FieldPos(0)
		return line, row, nil
	}
}

func plainRows(r io.Reader, delim rune) rowFunc {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	var line int
	sep := string(delim)
	return func() (int, []string, error) {
		for sc.Scan() {
			line++
			txt := strings.TrimRight(sc.Text(), "\r")
			if strings.TrimSpace(txt) == "" {
				continue
			}
			return line, strings.Split(txt, sep), nil
		}
		if err := sc.Err(); err != nil {
			return 0, nil, err
		}
		return 0, nil, io.EOF
	}
}

// delimiter guesses the delimiter of a header line.
func delimiter(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return '\t'
}

// record creates a record of the given type from a row. Columns with an
// empty term are ignored.
func record(
	file string,
	line int,
	rt verbatim.RowType,
	cols []verbatim.Term,
	row []string,
) *verbatim.Record {
	res := verbatim.New(file, line, rt)
	for i, v := range row {
		if i >= len(cols) || cols[i] == "" {
			continue
		}
		res.Set(cols[i], gnlib.FixUtf8(v))
	}
	return res
}

// columns maps header fields to terms. Fields unknown to the mapping keep
// their header name, so extension data survives verbatim.
func columns(header []string, mapping func(string) (verbatim.Term, bool)) []verbatim.Term {
	res := make([]verbatim.Term, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		if t, ok := mapping(headerKey(h)); ok {
			res[i] = t
			continue
		}
		res[i] = verbatim.Term(h)
	}
	return res
}

// headerKey lower-cases a header and drops namespace prefixes and URIs.
func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	if idx := strings.LastIndexAny(h, "/#"); idx >= 0 {
		h = h[idx+1:]
	}
	if idx := strings.LastIndex(h, ":"); idx >= 0 {
		h = h[idx+1:]
	}
	return h
}

func send(ctx context.Context, ch chan<- *verbatim.Record, r *verbatim.Record) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- r:
		return nil
	}
}

func hasColumn(cols []verbatim.Term, t verbatim.Term) bool {
	return slices.Contains(cols, t)
}
