// Package nomen contains the typed scientific name model produced by the
// name interpreter: ranks, statuses, nomenclatural codes, names and their
// names-index matches.
package nomen

import "strings"

// Type tells how a name string could be interpreted.
type Type uint8

const (
	Scientific Type = iota
	VirusName
	// Informal names are surrogates such as "Aus sp." or "Aus cf. bus".
	Informal
	// Placeholder is a non-informative name such as "incertae sedis" or
	// "not assigned".
	Placeholder
	// NoName is a string that could not be parsed at all.
	NoName
)

var typeNames = [...]string{
	Scientific:  "SCIENTIFIC",
	VirusName:   "VIRUS",
	Informal:    "INFORMAL",
	Placeholder: "PLACEHOLDER",
	NoName:      "NO_NAME",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[NoName]
}

// IsParsable reports whether names of this type have a canonical form.
func (t Type) IsParsable() bool {
	return t == Scientific || t == Informal
}

// MatchType is the outcome of a names-index lookup.
type MatchType uint8

const (
	MatchNone MatchType = iota
	MatchCanonical
	MatchExact
	MatchAmbiguous
)

var matchNames = [...]string{
	MatchNone:      "NONE",
	MatchCanonical: "CANONICAL",
	MatchExact:     "EXACT",
	MatchAmbiguous: "AMBIGUOUS",
}

func (m MatchType) String() string {
	if int(m) < len(matchNames) {
		return matchNames[m]
	}
	return matchNames[MatchNone]
}

// Name is an interpreted scientific name.
type Name struct {
	// ID is the source id of the name, or the id of the usage the name came
	// with when the archive does not separate names from usages.
	ID string

	// ScientificName is the name without authorship.
	ScientificName string
	Authorship     string
	Year           string

	Uninomial            string
	Genus                string
	InfragenericEpithet  string
	SpecificEpithet      string
	InfraspecificEpithet string

	Rank Rank
	Code Code
	Type Type

	// Canonical is the simple canonical form, empty for unparsed names.
	Canonical   string
	Cardinality int

	// HomotypicNameID groups names sharing a basionym lineage.
	HomotypicNameID string

	NamesIndexID string
	MatchType    MatchType

	// VerbatimKey points to the record the name was interpreted from.
	VerbatimKey int64
}

// Label returns the scientific name followed by its authorship.
func (n *Name) Label() string {
	if n.Authorship == "" {
		return n.ScientificName
	}
	return strings.TrimSpace(n.ScientificName + " " + n.Authorship)
}

// HasEpithets reports whether any atomized name part is present.
func (n *Name) HasEpithets() bool {
	return n.Uninomial != "" || n.Genus != "" || n.SpecificEpithet != "" ||
		n.InfraspecificEpithet != ""
}

// RankedName is a (rank, name) pair of a denormalized classification.
type RankedName struct {
	Rank Rank
	Name string
}
