package nomen

import (
	"strings"
)

// Rank is a taxonomic rank. Ranks are ordered from the highest to the
// lowest, Unranked is outside of the order.
type Rank uint8

const (
	Unranked Rank = iota
	Domain
	Kingdom
	Subkingdom
	Phylum
	Subphylum
	Class
	Subclass
	Order
	Suborder
	Superfamily
	Family
	Subfamily
	Tribe
	Subtribe
	Genus
	Subgenus
	Section
	Series
	Species
	Subspecies
	Variety
	Subvariety
	Form
	Subform
	Cultivar
)

var rankNames = [...]string{
	Unranked:    "unranked",
	Domain:      "domain",
	Kingdom:     "kingdom",
	Subkingdom:  "subkingdom",
	Phylum:      "phylum",
	Subphylum:   "subphylum",
	Class:       "class",
	Subclass:    "subclass",
	Order:       "order",
	Suborder:    "suborder",
	Superfamily: "superfamily",
	Family:      "family",
	Subfamily:   "subfamily",
	Tribe:       "tribe",
	Subtribe:    "subtribe",
	Genus:       "genus",
	Subgenus:    "subgenus",
	Section:     "section",
	Series:      "series",
	Species:     "species",
	Subspecies:  "subspecies",
	Variety:     "variety",
	Subvariety:  "subvariety",
	Form:        "form",
	Subform:     "subform",
	Cultivar:    "cultivar",
}

var rankAliases = map[string]Rank{
	"":                   Unranked,
	"unranked":           Unranked,
	"no rank":            Unranked,
	"superkingdom":       Domain,
	"regnum":             Kingdom,
	"division":           Phylum,
	"divisio":            Phylum,
	"classis":            Class,
	"ordo":               Order,
	"familia":            Family,
	"gen":                Genus,
	"gen.":               Genus,
	"subgen":             Subgenus,
	"subgen.":            Subgenus,
	"sect":               Section,
	"sect.":              Section,
	"ser":                Series,
	"ser.":               Series,
	"sp":                 Species,
	"sp.":                Species,
	"spec":               Species,
	"spec.":              Species,
	"infraspecies":       Subspecies,
	"infraspecific name": Subspecies,
	"ssp":                Subspecies,
	"ssp.":               Subspecies,
	"subsp":              Subspecies,
	"subsp.":             Subspecies,
	"var":                Variety,
	"var.":               Variety,
	"subvar":             Subvariety,
	"subvar.":            Subvariety,
	"f":                  Form,
	"f.":                 Form,
	"fo":                 Form,
	"fo.":                Form,
	"forma":              Form,
	"subf":               Subform,
	"subf.":              Subform,
	"subforma":           Subform,
	"cv":                 Cultivar,
	"cv.":                Cultivar,
}

func (r Rank) String() string {
	if int(r) < len(rankNames) {
		return rankNames[r]
	}
	return rankNames[Unranked]
}

// ParseRank interprets a verbatim rank. The second value is false when the
// rank is not recognized, in that case Unranked is returned.
func ParseRank(s string) (Rank, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if r, ok := rankAliases[s]; ok {
		return r, true
	}
	for i, v := range rankNames {
		if v == s {
			return Rank(i), true
		}
	}
	return Unranked, false
}

// IsHigherThan reports whether r is above other in the hierarchy. Unranked
// is never higher or lower than anything.
func (r Rank) IsHigherThan(other Rank) bool {
	if r == Unranked || other == Unranked {
		return false
	}
	return r < other
}

// IsSupraspecific reports whether the rank is above species.
func (r Rank) IsSupraspecific() bool {
	return r != Unranked && r < Species
}

// IsInfraspecific reports whether the rank is below species.
func (r Rank) IsInfraspecific() bool {
	return r > Species
}

// IsInfrageneric reports whether the rank is between genus and species.
func (r Rank) IsInfrageneric() bool {
	return r > Genus && r < Species
}

// Cardinality returns the number of name elements a canonical name of this
// rank has, 0 when it cannot be told.
func (r Rank) Cardinality() int {
	switch {
	case r == Unranked || r == Cultivar:
		return 0
	case r < Species:
		return 1
	case r == Species:
		return 2
	default:
		return 3
	}
}
