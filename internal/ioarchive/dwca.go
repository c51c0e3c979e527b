package ioarchive

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gnames/gnnorm/pkg/ent/verbatim"
)

type dwcaReader struct {
	dir   string
	files fileIndex
}

// meta is the DWCA archive descriptor.
type meta struct {
	Core       metaFile   `xml:"core"`
	Extensions []metaFile `xml:"extension"`
}

type metaFile struct {
	RowType           string      `xml:"rowType,attr"`
	FieldsTerminated  string      `xml:"fieldsTerminatedBy,attr"`
	FieldsEnclosed    *string     `xml:"fieldsEnclosedBy,attr"`
	IgnoreHeaderLines int         `xml:"ignoreHeaderLines,attr"`
	Locations         []string    `xml:"files>location"`
	ID                *metaIndex  `xml:"id"`
	CoreID            *metaIndex  `xml:"coreid"`
	Fields            []metaField `xml:"field"`
}

type metaIndex struct {
	Index int `xml:"index,attr"`
}

type metaField struct {
	Index   *int   `xml:"index,attr"`
	Term    string `xml:"term,attr"`
	Default string `xml:"default,attr"`
}

var dwcaRowTypes = map[string]verbatim.RowType{
	"taxon":          verbatim.Usage,
	"distribution":   verbatim.Distribution,
	"vernacularname": verbatim.Vernacular,
	"reference":      verbatim.Reference,
	"description":    verbatim.Description,
}

func (r *dwcaReader) Format() Format {
	return DWCA
}

func (r *dwcaReader) Read(ctx context.Context, ch chan<- *verbatim.Record) error {
	defer close(ch)
	path, ok := r.files.path(r.dir, "meta.xml")
	if !ok {
		return r.readBare(ctx, ch)
	}

	m, err := readMeta(path)
	if err != nil {
		return err
	}
	if rowType(m.Core.RowType) != verbatim.Usage {
		return MetaError(path, "core row type is not Taxon: "+m.Core.RowType)
	}
	if err = r.readMetaFile(ctx, ch, m.Core, verbatim.Usage, true); err != nil {
		return err
	}
	for _, ext := range m.Extensions {
		rt := rowType(ext.RowType)
		if rt == verbatim.UnknownRow {
			continue
		}
		if err = r.readMetaFile(ctx, ch, ext, rt, false); err != nil {
			return err
		}
	}
	return nil
}

func readMeta(path string) (meta, error) {
	var res meta
	bs, err := os.ReadFile(path)
	if err != nil {
		return res, ReadError(path, err)
	}
	if err = xml.Unmarshal(bs, &res); err != nil {
		return res, MetaError(path, err.Error())
	}
	if len(res.Core.Locations) == 0 {
		return res, MetaError(path, "core has no file location")
	}
	return res, nil
}

// rowType maps a row type URI to the uniform row type.
func rowType(uri string) verbatim.RowType {
	return dwcaRowTypes[headerKey(uri)]
}

func (r *dwcaReader) readMetaFile(
	ctx context.Context,
	ch chan<- *verbatim.Record,
	mf metaFile,
	rt verbatim.RowType,
	isCore bool,
) error {
	var cols []verbatim.Term
	var defaults []metaField
	mapping := lookup(dwcTerms, classTerms)
	for _, f := range mf.Fields {
		t, ok := mapping(headerKey(f.Term))
		if !ok {
			t = verbatim.Term(headerKey(f.Term))
		}
		if f.Index == nil {
			if f.Default != "" {
				defaults = append(defaults, metaField{Term: string(t), Default: f.Default})
			}
			continue
		}
		cols = setColumn(cols, *f.Index, t)
	}
	if isCore && mf.ID != nil {
		cols = setColumn(cols, mf.ID.Index, verbatim.ID)
	}
	if !isCore && mf.CoreID != nil {
		cols = setColumn(cols, mf.CoreID.Index, verbatim.TaxonID)
	}

	quoted := true
	if mf.FieldsEnclosed != nil && *mf.FieldsEnclosed == "" {
		quoted = false
	}
	delim := unescape(mf.FieldsTerminated, '\t')

	for _, loc := range mf.Locations {
		path, ok := r.files.path(r.dir, filepath.Base(loc))
		if !ok {
			if isCore {
				return MissingFileError(r.dir, loc)
			}
			continue
		}
		name := filepath.Base(path)
		t := table{path: path, delim: delim, quoted: quoted, skip: mf.IgnoreHeaderLines}
		err := readTable(ctx, t, nil, func(line int, row []string) error {
			rec := record(name, line, rt, cols, row)
			for _, d := range defaults {
				if !rec.Has(verbatim.Term(d.Term)) {
					rec.Set(verbatim.Term(d.Term), d.Default)
				}
			}
			return send(ctx, ch, rec)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// readBare reads a DWCA core without a descriptor, the header row names
// the terms.
func (r *dwcaReader) readBare(ctx context.Context, ch chan<- *verbatim.Record) error {
	path, ok := r.files.path(r.dir, "taxa.txt")
	if !ok {
		path, ok = r.files.path(r.dir, "taxon.txt")
	}
	if !ok {
		return MissingFileError(r.dir, "meta.xml")
	}
	delim, err := sniffDelimiter(path)
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	var cols []verbatim.Term
	mapping := with(lookup(dwcTerms, classTerms), map[string]verbatim.Term{
		"id": verbatim.ID,
	})
	t := table{path: path, delim: delim, quoted: true, skip: 1}
	header := func(row []string) error {
		cols = columns(row, mapping)
		if !hasColumn(cols, verbatim.ID) {
			return MetaError(path, "no taxonID column")
		}
		return nil
	}
	return readTable(ctx, t, header, func(line int, row []string) error {
		return send(ctx, ch, record(name, line, verbatim.Usage, cols, row))
	})
}

func setColumn(cols []verbatim.Term, idx int, t verbatim.Term) []verbatim.Term {
	if idx < 0 {
		return cols
	}
	for len(cols) <= idx {
		cols = append(cols, "")
	}
	cols[idx] = t
	return cols
}

// unescape converts a meta.xml delimiter attribute into a rune.
func unescape(s string, def rune) rune {
	switch s {
	case "":
		return def
	case `\t`:
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// sniffDelimiter picks tab or comma from the first line of a file.
func sniffDelimiter(path string) (rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, ReadError(path, err)
	}
	defer f.Close()
	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	line, _, _ := strings.Cut(string(buf[:n]), "\n")
	if strings.Count(line, "\t") >= strings.Count(line, ",") {
		return '\t', nil
	}
	return ',', nil
}
