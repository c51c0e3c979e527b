package ioarchive

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/gnames/gnnorm/pkg/ent/verbatim"
)

type coldpReader struct {
	dir   string
	files fileIndex
}

type coldpEntity struct {
	name    string
	rowType verbatim.RowType
	extra   map[string]verbatim.Term
	// status is set on rows that do not declare one.
	status string
}

var coldpEntities = []coldpEntity{
	{name: "Name", rowType: verbatim.Name},
	{name: "NameUsage", rowType: verbatim.Usage},
	{name: "Taxon", rowType: verbatim.Usage, status: "accepted"},
	{
		name:    "Synonym",
		rowType: verbatim.Usage,
		status:  "synonym",
		extra:   map[string]verbatim.Term{"taxonid": verbatim.AcceptedID},
	},
	{name: "NameRelation", rowType: verbatim.NameRelation},
	{name: "Distribution", rowType: verbatim.Distribution},
	{name: "VernacularName", rowType: verbatim.Vernacular},
	{name: "Reference", rowType: verbatim.Reference},
}

func (r *coldpReader) Format() Format {
	return ColDP
}

func (r *coldpReader) Read(ctx context.Context, ch chan<- *verbatim.Record) error {
	defer close(ch)
	_, hasUsage := r.files.entity("NameUsage")
	_, hasName := r.files.entity("Name")
	_, hasTaxon := r.files.entity("Taxon")
	if !hasUsage && !(hasName && hasTaxon) {
		return MissingFileError(r.dir, "NameUsage.tsv or Name.tsv with Taxon.tsv")
	}

	for _, e := range coldpEntities {
		fname, ok := r.files.entity(e.name)
		if !ok {
			slog.Debug("ColDP entity is absent", "entity", e.name)
			continue
		}
		if err := r.readEntity(ctx, ch, filepath.Join(r.dir, fname), e); err != nil {
			return err
		}
	}
	return nil
}

func (r *coldpReader) readEntity(
	ctx context.Context,
	ch chan<- *verbatim.Record,
	path string,
	e coldpEntity,
) error {
	var cols []verbatim.Term
	mapping := lookup(coldpTerms, classTerms)
	if e.extra != nil {
		mapping = with(mapping, e.extra)
	}
	delim := delimiter(path)
	t := table{path: path, delim: delim, quoted: delim == ',', skip: 1}
	name := filepath.Base(path)
	header := func(row []string) error {
		cols = columns(row, mapping)
		return nil
	}
	return readTable(ctx, t, header, func(line int, row []string) error {
		rec := record(name, line, e.rowType, cols, row)
		if e.status != "" && !rec.Has(verbatim.Status) {
			rec.Set(verbatim.Status, e.status)
		}
		return send(ctx, ch, rec)
	})
}
