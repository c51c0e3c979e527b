package nomen_test

import (
	"testing"

	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/stretchr/testify/assert"
)

func TestParseRank(t *testing.T) {
	tests := []struct {
		msg string
		in  string
		res nomen.Rank
		ok  bool
	}{
		{"full", "Species", nomen.Species, true},
		{"abbr", "subsp.", nomen.Subspecies, true},
		{"latin", "ordo", nomen.Order, true},
		{"empty", "", nomen.Unranked, true},
		{"unknown", "megarank", nomen.Unranked, false},
	}

	for _, v := range tests {
		res, ok := nomen.ParseRank(v.in)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.ok, ok, v.msg)
	}
}

func TestRankOrder(t *testing.T) {
	assert.True(t, nomen.Kingdom.IsHigherThan(nomen.Family))
	assert.False(t, nomen.Family.IsHigherThan(nomen.Kingdom))
	assert.False(t, nomen.Unranked.IsHigherThan(nomen.Species))
	assert.True(t, nomen.Genus.IsSupraspecific())
	assert.True(t, nomen.Variety.IsInfraspecific())
	assert.True(t, nomen.Subgenus.IsInfrageneric())
	assert.Equal(t, 1, nomen.Family.Cardinality())
	assert.Equal(t, 2, nomen.Species.Cardinality())
	assert.Equal(t, 3, nomen.Form.Cardinality())
	assert.Equal(t, 0, nomen.Unranked.Cardinality())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		msg     string
		in      string
		res     nomen.Status
		ok      bool
		synonym bool
	}{
		{"acef accepted", "accepted name", nomen.Accepted, true, false},
		{"provisional", "provisionally accepted name",
			nomen.ProvisionallyAccepted, true, false},
		{"plain synonym", "Synonym", nomen.Synonym, true, true},
		{"dwc style", "heterotypic_synonym", nomen.HeterotypicSynonym, true, true},
		{"pro parte", "pro parte synonym", nomen.AmbiguousSynonym, true, true},
		{"misapplied", "misapplied name", nomen.Misapplied, true, true},
		{"unknown", "weird", nomen.Accepted, false, false},
	}

	for _, v := range tests {
		res, ok := nomen.ParseStatus(v.in)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.ok, ok, v.msg)
		assert.Equal(t, v.synonym, res.IsSynonym(), v.msg)
	}
}

func TestParseCode(t *testing.T) {
	c, ok := nomen.ParseCode("ICZN")
	assert.True(t, ok)
	assert.Equal(t, nomen.Zoological, c)

	c, ok = nomen.ParseCode("")
	assert.True(t, ok)
	assert.Equal(t, nomen.UnknownCode, c)

	_, ok = nomen.ParseCode("klingon")
	assert.False(t, ok)
}

func TestNameLabel(t *testing.T) {
	n := nomen.Name{ScientificName: "Aus bus", Authorship: "L."}
	assert.Equal(t, "Aus bus L.", n.Label())
	n.Authorship = ""
	assert.Equal(t, "Aus bus", n.Label())
	assert.False(t, n.HasEpithets())
	assert.Equal(t, "PLACEHOLDER", nomen.Placeholder.String())
	assert.Equal(t, "AMBIGUOUS", nomen.MatchAmbiguous.String())
}
