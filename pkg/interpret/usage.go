package interpret

import (
	"slices"
	"strings"

	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
)

// Usage is an interpreted taxon or synonym row.
type Usage struct {
	ID     string
	NameID string
	// ParentID is empty for synonyms.
	ParentID    string
	AcceptedIDs []string
	BasionymID  string
	Status      nomen.Status
	// Classification is ordered from the highest rank down.
	Classification []nomen.RankedName
	Code           nomen.Code
}

// IsSynonym reports whether the usage was interpreted as a synonym.
func (u *Usage) IsSynonym() bool {
	return u.Status.IsSynonym()
}

// Usage interprets the usage fields of a record.
func (i *Interpreter) Usage(rec *verbatim.Record) (Usage, issue.Set) {
	var iss issue.Set
	res := Usage{
		ID:         rec.Get(verbatim.ID),
		NameID:     rec.Get(verbatim.NameID),
		ParentID:   rec.Get(verbatim.ParentID),
		BasionymID: rec.Get(verbatim.BasionymID),
	}
	if res.NameID == "" {
		res.NameID = res.ID
	}
	res.Code, _ = nomen.ParseCode(rec.Get(verbatim.Code))
	if res.Code == nomen.UnknownCode {
		res.Code = i.defaultCode
	}

	for _, v := range SplitIDs(rec.Get(verbatim.AcceptedID)) {
		if v != res.ID && !slices.Contains(res.AcceptedIDs, v) {
			res.AcceptedIDs = append(res.AcceptedIDs, v)
		}
	}

	rawStatus := rec.Get(verbatim.Status)
	st, ok := nomen.ParseStatus(rawStatus)
	switch {
	case rawStatus == "":
		st = nomen.Accepted
		if len(res.AcceptedIDs) > 0 {
			st = nomen.Synonym
		}
	case !ok:
		iss = iss.Add(issue.TaxonomicStatusInvalid)
		st = nomen.Accepted
		if len(res.AcceptedIDs) > 0 {
			st = nomen.Synonym
		}
	case st.IsTaxon() && len(res.AcceptedIDs) > 0:
		iss = iss.Add(issue.TaxonomicStatusInvalid)
		st = nomen.Synonym
	case st == nomen.BareName:
		st = nomen.Accepted
		iss = iss.Add(issue.TaxonomicStatusInvalid)
	}

	if st.IsSynonym() {
		// formats linking synonyms through the parent column
		if len(res.AcceptedIDs) == 0 && res.ParentID != "" {
			res.AcceptedIDs = []string{res.ParentID}
		}
		res.ParentID = ""
		if len(res.AcceptedIDs) > 1 && st != nomen.Misapplied {
			st = nomen.AmbiguousSynonym
		}
	}
	res.Status = st

	for _, t := range verbatim.ClassificationTerms {
		v := rec.Get(t)
		if v == "" {
			continue
		}
		rank, _ := nomen.ParseRank(string(t))
		res.Classification = append(
			res.Classification,
			nomen.RankedName{Rank: rank, Name: v},
		)
	}
	return res, iss
}

// SplitIDs splits a multi-valued id field.
func SplitIDs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ';' || r == ','
	})
	var res []string
	for _, v := range fields {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return res
}
