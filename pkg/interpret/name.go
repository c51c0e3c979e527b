package interpret

import (
	"strings"
	"unicode"

	"github.com/gnames/gnlib"
	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnparser/ent/parsed"
	"github.com/gnames/gnuuid"
)

// placeholders are lower case tokens of names carrying no information.
var placeholders = []string{
	"incertae sedis",
	"inc. sed.",
	"not assigned",
	"unassigned",
	"unplaced",
	"unknown",
	"undetermined",
	"unidentified",
	"unnamed",
	"unspecified",
	"not specified",
	"no name",
}

var rankMarkers = map[nomen.Rank]string{
	nomen.Subspecies: "subsp.",
	nomen.Variety:    "var.",
	nomen.Subvariety: "subvar.",
	nomen.Form:       "f.",
	nomen.Subform:    "subf.",
}

// Name interprets the name fields of a record.
func (i *Interpreter) Name(rec *verbatim.Record) (*nomen.Name, issue.Set) {
	var iss issue.Set
	res := &nomen.Name{
		ID:          rec.Get(verbatim.NameID),
		VerbatimKey: rec.Key,
	}
	if res.ID == "" || rec.Type == verbatim.Name {
		res.ID = rec.Get(verbatim.ID)
	}

	var ok bool
	res.Code, ok = nomen.ParseCode(rec.Get(verbatim.Code))
	if !ok {
		iss = iss.Add(issue.NomenclaturalCodeInvalid)
	}
	if res.Code == nomen.UnknownCode {
		res.Code = i.defaultCode
	}

	res.Rank, ok = nomen.ParseRank(rec.Get(verbatim.Rank))
	if !ok {
		iss = iss.Add(issue.RankInvalid)
	}

	res.Uninomial = rec.Get(verbatim.Uninomial)
	res.Genus = rec.Get(verbatim.Genus)
	res.InfragenericEpithet = rec.Get(verbatim.Subgenus)
	res.SpecificEpithet = rec.Get(verbatim.SpecificEpithet)
	res.InfraspecificEpithet = rec.Get(verbatim.InfraspecificEpithet)
	res.Authorship = gnlib.FixUtf8(rec.Get(verbatim.Authorship))

	sciName := rec.Get(verbatim.ScientificName)
	if sciName == "" {
		sciName = buildName(res, rec.Get(verbatim.InfraspecificMarker))
	}
	sciName = gnlib.FixUtf8(sciName)
	res.ScientificName = sciName

	full := sciName
	if res.Authorship != "" && !strings.HasSuffix(sciName, res.Authorship) {
		full = sciName + " " + res.Authorship
	}
	if hasUnusualChars(full) {
		iss = iss.Add(issue.UnusualNameCharacters)
	}

	iss = iss.Merge(i.parse(res, full))
	return res, iss
}

// HigherName interprets a name of a denormalized classification.
func (i *Interpreter) HigherName(rn nomen.RankedName, code nomen.Code) *nomen.Name {
	res := &nomen.Name{
		ScientificName: gnlib.FixUtf8(strings.TrimSpace(rn.Name)),
		Rank:           rn.Rank,
		Code:           code,
	}
	if res.Code == nomen.UnknownCode {
		res.Code = i.defaultCode
	}
	_ = i.parse(res, res.ScientificName)
	if res.Type == nomen.Scientific && res.Cardinality == 1 {
		res.Uninomial = res.Canonical
	}
	return res
}

// parse fills parsed fields of the name and returns detected issues.
func (i *Interpreter) parse(n *nomen.Name, full string) issue.Set {
	var iss issue.Set
	if full == "" {
		n.Type = nomen.NoName
		n.HomotypicNameID = homotypicID(n)
		return iss.Add(issue.UnparsableName)
	}
	if IsPlaceholder(full) {
		n.Type = nomen.Placeholder
		n.HomotypicNameID = homotypicID(n)
		return iss
	}

	p, err := i.parser.Parse(full, n.Code)
	if err != nil || !p.Parsed {
		n.Type = nomen.NoName
		n.HomotypicNameID = homotypicID(n)
		return iss.Add(issue.UnparsableName)
	}

	n.Type = nomen.Scientific
	switch {
	case p.Virus:
		n.Type = nomen.VirusName
	case p.Surrogate != nil:
		n.Type = nomen.Informal
	}

	// quality 4 means only the beginning of the string was parsed
	if p.ParseQuality >= 4 {
		iss = iss.Add(issue.PartiallyParsableName)
	}

	n.Canonical = p.Canonical.Simple
	n.Cardinality = p.Cardinality
	fillAuthorship(n, p)
	fillAtoms(n)

	if n.Rank == nomen.Unranked && n.Cardinality == 2 {
		n.Rank = nomen.Species
	}
	if isInconsistent(n) {
		iss = iss.Add(issue.InconsistentName)
	}
	n.HomotypicNameID = homotypicID(n)
	return iss
}

func fillAuthorship(n *nomen.Name, p parsed.Parsed) {
	if p.Authorship == nil {
		return
	}
	n.Year = strings.Trim(p.Authorship.Year, "()")
	if n.Authorship != "" {
		return
	}
	n.Authorship = p.Authorship.Verbatim
	if n.Authorship != "" && strings.HasSuffix(n.ScientificName, n.Authorship) {
		sn := strings.TrimSuffix(n.ScientificName, n.Authorship)
		n.ScientificName = strings.TrimSpace(sn)
	}
}

// fillAtoms splits the canonical form into name parts the record did not
// provide.
func fillAtoms(n *nomen.Name) {
	if n.HasEpithets() || n.Canonical == "" {
		return
	}
	words := strings.Fields(n.Canonical)
	switch len(words) {
	case 1:
		n.Uninomial = words[0]
	case 2:
		n.Genus, n.SpecificEpithet = words[0], words[1]
	default:
		n.Genus, n.SpecificEpithet = words[0], words[1]
		n.InfraspecificEpithet = words[len(words)-1]
	}
}

// isInconsistent reports whether the rank implies name parts the name
// lacks, or the other way around.
func isInconsistent(n *nomen.Name) bool {
	if n.Type != nomen.Scientific || n.Cardinality == 0 {
		return false
	}
	want := n.Rank.Cardinality()
	if want == 0 {
		return false
	}
	return want != n.Cardinality
}

func buildName(n *nomen.Name, marker string) string {
	if n.Uninomial != "" {
		return n.Uninomial
	}
	if n.Genus == "" {
		return ""
	}
	parts := []string{n.Genus}
	if n.InfragenericEpithet != "" {
		parts = append(parts, "("+n.InfragenericEpithet+")")
	}
	if n.SpecificEpithet != "" {
		parts = append(parts, n.SpecificEpithet)
	}
	if n.InfraspecificEpithet != "" {
		if marker == "" {
			marker = rankMarkers[n.Rank]
		}
		if marker != "" {
			parts = append(parts, marker)
		}
		parts = append(parts, n.InfraspecificEpithet)
	}
	return strings.Join(parts, " ")
}

// IsPlaceholder reports whether a name string carries no taxonomic
// information, like "Not assigned" or "Asteraceae incertae sedis".
func IsPlaceholder(s string) bool {
	s = strings.ToLower(s)
	for _, v := range placeholders {
		if strings.Contains(s, v) {
			return true
		}
	}
	return false
}

func hasUnusualChars(s string) bool {
	for _, r := range s {
		switch {
		case r == unicode.ReplacementChar, r == '?':
			return true
		case unicode.IsControl(r):
			return true
		case strings.ContainsRune("@#$%^*=_|~<>{}\\", r):
			return true
		}
	}
	return false
}

// homotypicID computes the provisional homotypic group key from the
// canonical form and rank, or from the label for unparsed names.
func homotypicID(n *nomen.Name) string {
	key := n.Canonical
	if key == "" {
		key = n.Label()
	}
	return gnuuid.New(key + "|" + n.Rank.String()).String()
}

func hasAtoms(rec *verbatim.Record) bool {
	return rec.Has(verbatim.Uninomial) || rec.Has(verbatim.Genus)
}
