// Package issue enumerates data-quality deviations detected while
// normalizing a checklist. Issues are attached to verbatim records and
// are never fatal.
package issue

import (
	"math/bits"
	"slices"
	"strings"
)

// Issue is a single data-quality flag.
type Issue uint8

const (
	// IDNotUnique marks a record whose declared id was already used.
	IDNotUnique Issue = iota
	// ParentIDInvalid marks a parent reference that cannot be resolved.
	ParentIDInvalid
	// AcceptedIDInvalid marks a synonym without a resolvable accepted taxon.
	AcceptedIDInvalid
	// BasionymIDInvalid marks an unresolvable or conflicting basionym
	// reference.
	BasionymIDInvalid
	// ChainedBasionym marks names that are part of a basionym chain or
	// cycle.
	ChainedBasionym
	// SynonymDataMoved marks a synonym whose extension data was moved to
	// an accepted taxon.
	SynonymDataMoved
	UnusualNameCharacters
	PartiallyParsableName
	UnparsableName
	// InconsistentName marks names whose rank implies a name part the
	// record lacks.
	InconsistentName
	NameMatchNone
	NameMatchAmbiguous
	RankInvalid
	TaxonomicStatusInvalid
	NomenclaturalCodeInvalid
	// ConflictingParent marks a second parent declaration for a taxon.
	ConflictingParent
	// ParentCycle marks a parent link refused because it closes a cycle.
	ParentCycle
	ParentIsSynonym
	AcceptedIsSynonym
	// TaxonIDInvalid marks extension rows pointing to an unknown taxon.
	TaxonIDInvalid
	lastIssue
)

var names = [...]string{
	IDNotUnique:              "ID_NOT_UNIQUE",
	ParentIDInvalid:          "PARENT_ID_INVALID",
	AcceptedIDInvalid:        "ACCEPTED_ID_INVALID",
	BasionymIDInvalid:        "BASIONYM_ID_INVALID",
	ChainedBasionym:          "CHAINED_BASIONYM",
	SynonymDataMoved:         "SYNONYM_DATA_MOVED",
	UnusualNameCharacters:    "UNUSUAL_NAME_CHARACTERS",
	PartiallyParsableName:    "PARTIALLY_PARSABLE_NAME",
	UnparsableName:           "UNPARSABLE_NAME",
	InconsistentName:         "INCONSISTENT_NAME",
	NameMatchNone:            "NAME_MATCH_NONE",
	NameMatchAmbiguous:       "NAME_MATCH_AMBIGUOUS",
	RankInvalid:              "RANK_INVALID",
	TaxonomicStatusInvalid:   "TAXONOMIC_STATUS_INVALID",
	NomenclaturalCodeInvalid: "NOMENCLATURAL_CODE_INVALID",
	ConflictingParent:        "CONFLICTING_PARENT",
	ParentCycle:              "PARENT_CYCLE",
	ParentIsSynonym:          "PARENT_IS_SYNONYM",
	AcceptedIsSynonym:        "ACCEPTED_IS_SYNONYM",
	TaxonIDInvalid:           "TAXON_ID_INVALID",
}

// String returns the upper snake case name of the issue.
func (i Issue) String() string {
	if i >= lastIssue {
		return "UNKNOWN_ISSUE"
	}
	return names[i]
}

// All returns every known issue in declaration order.
func All() []Issue {
	res := make([]Issue, 0, int(lastIssue))
	for i := range lastIssue {
		res = append(res, i)
	}
	return res
}

// New converts an upper snake case name back to an Issue.
func New(s string) (Issue, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	idx := slices.Index(names[:], s)
	if idx < 0 {
		return lastIssue, false
	}
	return Issue(idx), true
}

// Set is a compact accumulating set of issues. The zero value is empty.
type Set uint64

// Add returns the set with all given issues included.
func (s Set) Add(ii ...Issue) Set {
	for _, i := range ii {
		s |= 1 << i
	}
	return s
}

// Has reports whether the issue is in the set.
func (s Set) Has(i Issue) bool {
	return s&(1<<i) != 0
}

// Merge returns the union of two sets.
func (s Set) Merge(other Set) Set {
	return s | other
}

// Len returns the number of issues in the set.
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Issues returns the issues of the set in declaration order.
func (s Set) Issues() []Issue {
	var res []Issue
	for i := range lastIssue {
		if s.Has(i) {
			res = append(res, i)
		}
	}
	return res
}

func (s Set) String() string {
	ii := s.Issues()
	res := make([]string, len(ii))
	for i, v := range ii {
		res[i] = v.String()
	}
	return strings.Join(res, ",")
}

// Histogram counts records per issue.
type Histogram map[Issue]int

// Count adds every issue of the set to the histogram.
func (h Histogram) Count(s Set) {
	for _, i := range s.Issues() {
		h[i]++
	}
}

// ByName converts the histogram to string keys, suitable for JSON output
// and metrics labels.
func (h Histogram) ByName() map[string]int {
	res := make(map[string]int, len(h))
	for k, v := range h {
		res[k.String()] = v
	}
	return res
}
