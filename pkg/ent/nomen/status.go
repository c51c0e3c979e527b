package nomen

import (
	"strings"
)

// Status is the taxonomic status of a name usage.
type Status uint8

const (
	Accepted Status = iota
	ProvisionallyAccepted
	Synonym
	HomotypicSynonym
	HeterotypicSynonym
	// AmbiguousSynonym is a pro parte synonym pointing to several taxa.
	AmbiguousSynonym
	Misapplied
	// BareName is a name kept without a usage.
	BareName
)

var statusNames = [...]string{
	Accepted:              "accepted",
	ProvisionallyAccepted: "provisionally accepted",
	Synonym:               "synonym",
	HomotypicSynonym:      "homotypic synonym",
	HeterotypicSynonym:    "heterotypic synonym",
	AmbiguousSynonym:      "ambiguous synonym",
	Misapplied:            "misapplied",
	BareName:              "bare name",
}

var statusAliases = map[string]Status{
	"valid":                       Accepted,
	"accepted name":               Accepted,
	"provisionally accepted name": ProvisionallyAccepted,
	"provisional":                 ProvisionallyAccepted,
	"doubtful":                    ProvisionallyAccepted,
	"invalid":                     Synonym,
	"objective synonym":           HomotypicSynonym,
	"nomenclatural synonym":       HomotypicSynonym,
	"homotypic":                   HomotypicSynonym,
	"subjective synonym":          HeterotypicSynonym,
	"taxonomic synonym":           HeterotypicSynonym,
	"heterotypic":                 HeterotypicSynonym,
	"pro parte synonym":           AmbiguousSynonym,
	"proparte synonym":            AmbiguousSynonym,
	"misapplied name":             Misapplied,
	"misapplication":              Misapplied,
	"bare":                        BareName,
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ParseStatus interprets a verbatim status. Underscores and dashes are
// treated as spaces.
func ParseStatus(s string) (Status, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	if st, ok := statusAliases[s]; ok {
		return st, true
	}
	for i, v := range statusNames {
		if v == s {
			return Status(i), true
		}
	}
	return Accepted, false
}

// IsSynonym reports whether the usage points to an accepted taxon.
func (s Status) IsSynonym() bool {
	switch s {
	case Synonym, HomotypicSynonym, HeterotypicSynonym, AmbiguousSynonym,
		Misapplied:
		return true
	}
	return false
}

// IsTaxon reports whether the usage is an accepted taxon.
func (s Status) IsTaxon() bool {
	return s == Accepted || s == ProvisionallyAccepted
}
