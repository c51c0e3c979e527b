package issue_test

import (
	"testing"

	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	var s issue.Set
	assert.Equal(t, 0, s.Len())

	s = s.Add(issue.IDNotUnique, issue.ChainedBasionym)
	s = s.Add(issue.IDNotUnique)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(issue.ChainedBasionym))
	assert.False(t, s.Has(issue.ParentCycle))
	assert.Equal(t, "ID_NOT_UNIQUE,CHAINED_BASIONYM", s.String())

	other := issue.Set(0).Add(issue.ParentCycle)
	m := s.Merge(other)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []issue.Issue{
		issue.IDNotUnique, issue.ChainedBasionym, issue.ParentCycle,
	}, m.Issues())
}

func TestNew(t *testing.T) {
	tests := []struct {
		msg string
		in  string
		res issue.Issue
		ok  bool
	}{
		{"exact", "SYNONYM_DATA_MOVED", issue.SynonymDataMoved, true},
		{"lower case", " name_match_none ", issue.NameMatchNone, true},
		{"unknown", "NOPE", 0, false},
	}

	for _, v := range tests {
		res, ok := issue.New(v.in)
		assert.Equal(t, v.ok, ok, v.msg)
		if ok {
			assert.Equal(t, v.res, res, v.msg)
		}
	}
}

func TestAllNamed(t *testing.T) {
	for _, v := range issue.All() {
		assert.NotEqual(t, "UNKNOWN_ISSUE", v.String())
		assert.NotEmpty(t, v.String())
	}
}

func TestHistogram(t *testing.T) {
	h := issue.Histogram{}
	h.Count(issue.Set(0).Add(issue.IDNotUnique, issue.RankInvalid))
	h.Count(issue.Set(0).Add(issue.IDNotUnique))
	assert.Equal(t, 2, h[issue.IDNotUnique])
	assert.Equal(t, 1, h[issue.RankInvalid])
	assert.Equal(t, map[string]int{
		"ID_NOT_UNIQUE": 2,
		"RANK_INVALID":  1,
	}, h.ByName())
}
