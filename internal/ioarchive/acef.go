package ioarchive

import (
	"context"
	"log/slog"

	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
)

type acefReader struct {
	dir   string
	files fileIndex
	// species keeps genus, subgenus and epithet of accepted species, for
	// infraspecific rows that only refer to their species.
	species map[string][3]string
}

type acefFile struct {
	name      string
	rowType   verbatim.RowType
	mandatory bool
	// extra overrides the shared ACEF column mapping.
	extra map[string]verbatim.Term
	// fix completes a record after its columns are set.
	fix func(*verbatim.Record)
}

func (r *acefReader) Format() Format {
	return ACEF
}

func (r *acefReader) Read(ctx context.Context, ch chan<- *verbatim.Record) error {
	defer close(ch)
	r.species = make(map[string][3]string)

	files := []acefFile{
		{
			name:      "AcceptedSpecies.txt",
			rowType:   verbatim.Usage,
			mandatory: true,
			fix:       r.fixSpecies,
		},
		{
			name:    "AcceptedInfraSpecificTaxa.txt",
			rowType: verbatim.Usage,
			fix:     r.fixInfraspecies,
		},
		{
			name:    "Synonyms.txt",
			rowType: verbatim.Usage,
			extra: map[string]verbatim.Term{
				"id":              verbatim.ID,
				"acceptedtaxonid": verbatim.AcceptedID,
			},
			fix: fixSynonym,
		},
		{
			name:    "References.txt",
			rowType: verbatim.Reference,
			extra: map[string]verbatim.Term{
				"referenceid": verbatim.ID,
			},
		},
		{
			name:    "NameReferencesLinks.txt",
			rowType: verbatim.NameReference,
			extra: map[string]verbatim.Term{
				"id":          verbatim.TaxonID,
				"referenceid": verbatim.ReferenceID,
			},
		},
		{
			name:    "Distribution.txt",
			rowType: verbatim.Distribution,
			extra: map[string]verbatim.Term{
				"acceptedtaxonid": verbatim.TaxonID,
			},
		},
		{
			name:    "CommonNames.txt",
			rowType: verbatim.Vernacular,
			extra: map[string]verbatim.Term{
				"acceptedtaxonid": verbatim.TaxonID,
				"referenceid":     verbatim.ReferenceID,
			},
		},
	}

	for _, f := range files {
		path, ok := r.files.path(r.dir, f.name)
		if !ok {
			if f.mandatory {
				return MissingFileError(r.dir, f.name)
			}
			slog.Debug("ACEF file is absent", "file", f.name)
			continue
		}
		if err := r.readFile(ctx, ch, path, f); err != nil {
			return err
		}
	}
	return nil
}

func (r *acefReader) readFile(
	ctx context.Context,
	ch chan<- *verbatim.Record,
	path string,
	f acefFile,
) error {
	var cols []verbatim.Term
	mapping := lookup(acefTerms, classTerms)
	if f.extra != nil {
		mapping = with(mapping, f.extra)
	}
	t := table{path: path, delim: '\t', quoted: true, skip: 1}
	header := func(row []string) error {
		cols = columns(row, mapping)
		return nil
	}
	return readTable(ctx, t, header, func(line int, row []string) error {
		rec := record(f.name, line, f.rowType, cols, row)
		if f.fix != nil {
			f.fix(rec)
		}
		return send(ctx, ch, rec)
	})
}

func (r *acefReader) fixSpecies(rec *verbatim.Record) {
	rec.Set(verbatim.Rank, nomen.Species.String())
	rec.Set(verbatim.Authorship, rec.Get(acefAuthor))
	if id := rec.Get(verbatim.ID); id != "" {
		r.species[id] = [3]string{
			rec.Get(verbatim.Genus),
			rec.Get(verbatim.Subgenus),
			rec.Get(verbatim.SpecificEpithet),
		}
	}
}

func (r *acefReader) fixInfraspecies(rec *verbatim.Record) {
	if sp, ok := r.species[rec.Get(verbatim.ParentID)]; ok {
		if !rec.Has(verbatim.Genus) {
			rec.Set(verbatim.Genus, sp[0])
			rec.Set(verbatim.Subgenus, sp[1])
		}
		if !rec.Has(verbatim.SpecificEpithet) {
			rec.Set(verbatim.SpecificEpithet, sp[2])
		}
	}
	rec.Set(verbatim.Authorship, rec.Get(acefInfraAuthor))
	setInfraRank(rec)
}

func fixSynonym(rec *verbatim.Record) {
	if rec.Has(verbatim.InfraspecificEpithet) {
		rec.Set(verbatim.Authorship, rec.Get(acefInfraAuthor))
		setInfraRank(rec)
		return
	}
	rec.Set(verbatim.Authorship, rec.Get(acefAuthor))
	rec.Set(verbatim.Rank, nomen.Species.String())
}

// setInfraRank derives the rank from the marker, an unknown marker leaves
// the rank to the parser.
func setInfraRank(rec *verbatim.Record) {
	if rank, ok := nomen.ParseRank(rec.Get(verbatim.InfraspecificMarker)); ok &&
		rank.IsInfraspecific() {
		rec.Set(verbatim.Rank, rank.String())
	}
}
