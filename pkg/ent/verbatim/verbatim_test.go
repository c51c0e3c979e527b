package verbatim_test

import (
	"testing"

	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	r := verbatim.New("Taxon.tsv", 2, verbatim.Usage)
	r.Set(verbatim.ID, " 12 ")
	r.Set(verbatim.ParentID, "   ")
	assert.Equal(t, "12", r.Get(verbatim.ID))
	assert.False(t, r.Has(verbatim.ParentID))
	assert.False(t, r.HasClassification())

	r.Set(verbatim.Family, "Asteraceae")
	assert.True(t, r.HasClassification())
}

func TestRowType(t *testing.T) {
	assert.True(t, verbatim.Distribution.IsExtension())
	assert.True(t, verbatim.Vernacular.IsExtension())
	assert.False(t, verbatim.Usage.IsExtension())
	assert.False(t, verbatim.NameRelation.IsExtension())
	assert.Equal(t, "name_relation", verbatim.NameRelation.String())
	assert.Equal(t, "unknown", verbatim.RowType(200).String())
}

func TestStore(t *testing.T) {
	s := verbatim.NewStore()
	k1 := s.Add(verbatim.New("a", 1, verbatim.Usage))
	k2 := s.Add(verbatim.New("a", 2, verbatim.Usage))
	assert.Equal(t, int64(1), k1)
	assert.Equal(t, int64(2), k2)
	assert.Equal(t, 2, s.Len())
	assert.Nil(t, s.Get(0))
	assert.Nil(t, s.Get(3))

	s.AddIssues(k1, issue.IDNotUnique)
	s.AddIssues(k1, issue.RankInvalid)
	s.AddIssues(k2, issue.IDNotUnique)
	s.AddIssues(99, issue.IDNotUnique)

	r := s.Get(k1)
	require.NotNil(t, r)
	assert.True(t, r.Issues.Has(issue.IDNotUnique))
	assert.True(t, r.Issues.Has(issue.RankInvalid))

	h := s.Histogram()
	assert.Equal(t, 2, h[issue.IDNotUnique])
	assert.Equal(t, 1, h[issue.RankInvalid])

	var lines []int
	for r := range s.All() {
		lines = append(lines, r.Line)
	}
	assert.Equal(t, []int{1, 2}, lines)
}
