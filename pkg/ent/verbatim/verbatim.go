// Package verbatim holds source rows exactly as they were read from an
// archive, together with the issues detected while interpreting them.
package verbatim

import (
	"strings"

	"github.com/gnames/gnnorm/pkg/ent/issue"
)

// RowType is the uniform kind of a source row, independent of the archive
// format it came from.
type RowType uint8

const (
	UnknownRow RowType = iota
	// Usage is a taxon or synonym row, optionally carrying its own name.
	Usage
	// Name is a name-only row (ColDP Name).
	Name
	// NameRelation links two names (basionym, replacement name).
	NameRelation
	Distribution
	Vernacular
	Reference
	NameReference
	Description
)

var rowTypes = map[RowType]string{
	UnknownRow:    "unknown",
	Usage:         "usage",
	Name:          "name",
	NameRelation:  "name_relation",
	Distribution:  "distribution",
	Vernacular:    "vernacular",
	Reference:     "reference",
	NameReference: "name_reference",
	Description:   "description",
}

func (rt RowType) String() string {
	if s, ok := rowTypes[rt]; ok {
		return s
	}
	return rowTypes[UnknownRow]
}

// IsExtension reports whether rows of this type carry data attached to a
// taxon (the data that migrates when a synonym has to be restructured).
func (rt RowType) IsExtension() bool {
	switch rt {
	case Distribution, Vernacular, Reference, NameReference, Description:
		return true
	}
	return false
}

// Term is a normalized field name shared by all readers.
type Term string

const (
	ID                   Term = "id"
	ParentID             Term = "parentID"
	AcceptedID           Term = "acceptedID"
	NameID               Term = "nameID"
	BasionymID           Term = "basionymID"
	TaxonID              Term = "taxonID"
	RelatedNameID        Term = "relatedNameID"
	RelationType         Term = "relationType"
	ReferenceID          Term = "referenceID"
	ScientificName       Term = "scientificName"
	Authorship           Term = "authorship"
	Rank                 Term = "rank"
	Status               Term = "status"
	Code                 Term = "code"
	Uninomial            Term = "uninomial"
	Genus                Term = "genus"
	Subgenus             Term = "subgenus"
	SpecificEpithet      Term = "specificEpithet"
	InfraspecificEpithet Term = "infraspecificEpithet"
	InfraspecificMarker  Term = "infraspecificMarker"
	Remarks              Term = "remarks"

	Kingdom     Term = "kingdom"
	Phylum      Term = "phylum"
	Class       Term = "class"
	Order       Term = "order"
	Superfamily Term = "superfamily"
	Family      Term = "family"
	Subfamily   Term = "subfamily"
	Tribe       Term = "tribe"
)

// ClassificationTerms lists denormalized higher classification terms from
// the highest rank down.
var ClassificationTerms = []Term{
	Kingdom, Phylum, Class, Order, Superfamily, Family, Subfamily, Tribe,
}

// Record is one source row. Terms are immutable after creation, Issues
// only accumulate.
type Record struct {
	// Key is assigned by the Store, it starts from 1.
	Key int64
	// File is the archive file the row was read from.
	File string
	// Line is the 1-based line of the row in its file.
	Line int
	Type RowType
	// Terms keeps non-empty values only.
	Terms  map[Term]string
	Issues issue.Set
}

// New creates a record with a fresh terms map.
func New(file string, line int, rt RowType) *Record {
	return &Record{
		File:  file,
		Line:  line,
		Type:  rt,
		Terms: make(map[Term]string),
	}
}

// Set stores a trimmed value, empty values are ignored.
func (r *Record) Set(t Term, val string) {
	val = strings.TrimSpace(val)
	if val == "" {
		return
	}
	r.Terms[t] = val
}

// Get returns the value of a term or an empty string.
func (r *Record) Get(t Term) string {
	return r.Terms[t]
}

// Has reports whether the term carries a value.
func (r *Record) Has(t Term) bool {
	_, ok := r.Terms[t]
	return ok
}

// HasClassification reports whether any denormalized higher rank term is
// present.
func (r *Record) HasClassification() bool {
	for _, t := range ClassificationTerms {
		if r.Has(t) {
			return true
		}
	}
	return false
}
