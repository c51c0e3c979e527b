package ionormalize

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/internal/ioarchive"
	"github.com/gnames/gnnorm/internal/iotesting"
	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/config"
	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/errcode"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnnorm/pkg/idgen"
	"github.com/gnames/gnnorm/pkg/namesindex"
	"github.com/gnames/gnnorm/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(
	t *testing.T,
	cfg *config.Config,
	a iotesting.Archive,
	m namesindex.Matcher,
) *gnnorm.Result {
	t.Helper()
	pool := parserpool.NewPool(2)
	t.Cleanup(pool.Close)
	n := New(cfg, pool, m)
	res, err := n.Normalize(context.Background(), gnnorm.Request{
		DatasetKey: "test",
		Dir:        iotesting.WriteArchive(t, a),
	})
	require.NoError(t, err)
	return res
}

func usage(t *testing.T, g *graph.Graph, id string) *graph.Node {
	t.Helper()
	n, ok := g.ByID(graph.UsageNode, id)
	require.True(t, ok, "usage %s", id)
	return n
}

func issuesOf(res *gnnorm.Result, key int64) issue.Set {
	return res.Verbatim.Get(key).Issues
}

func TestACEFSynonyms(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	res := normalize(t, cfg, iotesting.ACEFSynonyms(), nil)
	g := res.Graph

	assert.True(t, g.Closed())
	assert.Equal(t, "ACEF", res.Summary.Format)
	assert.Equal(t, 11, res.Summary.Records)

	syn := usage(t, g, "10")
	assert.Equal(t, graph.Synonym, syn.Label)
	assert.Equal(t, []int{usage(t, g, "1").Idx}, g.Accepted(syn.Idx))

	// synonym without data is dropped, its name is kept
	_, ok := g.ByID(graph.UsageNode, "11")
	assert.False(t, ok)
	nn, ok := g.ByID(graph.NameNode, "11")
	require.True(t, ok)
	assert.Empty(t, g.UsagesOf(nn.Idx))
	dropped := nn.VerbatimKey
	assert.True(t, issuesOf(res, dropped).Has(issue.AcceptedIDInvalid))
	assert.False(t, issuesOf(res, dropped).Has(issue.SynonymDataMoved))

	// synonym with data becomes an implicit taxon
	_, ok = g.ByID(graph.UsageNode, "12")
	assert.False(t, ok)
	nn, ok = g.ByID(graph.NameNode, "12")
	require.True(t, ok)
	uu := g.UsagesOf(nn.Idx)
	require.Len(t, uu, 1)
	implicit := uu[0]
	assert.Equal(t, graph.Taxon, implicit.Label)
	assert.True(t, implicit.Synthetic)
	assert.NotEmpty(t, implicit.ID)
	assert.Len(t, implicit.Data, 2)
	moved := issuesOf(res, nn.VerbatimKey)
	assert.True(t, moved.Has(issue.SynonymDataMoved))
	assert.True(t, moved.Has(issue.AcceptedIDInvalid))

	sp := usage(t, g, "1")
	assert.Len(t, sp.Data, 2)
	sub := usage(t, g, "3")
	p, ok := g.Parent(sub.Idx)
	require.True(t, ok)
	assert.Equal(t, sp.Idx, p)

	// classification is synthesized above the species
	var lineage []string
	for cur, ok := g.Parent(sp.Idx); ok; cur, ok = g.Parent(cur) {
		lineage = append(lineage, g.NameOf(cur).ScientificName)
	}
	assert.Equal(t,
		[]string{"Carabidae", "Coleoptera", "Insecta", "Arthropoda", "Animalia"},
		lineage)
	fam, _ := g.Parent(sp.Idx)
	assert.True(t, g.Node(fam).Synthetic)
	assert.Equal(t, nomen.Family, g.NameOf(fam).Rank)
	p2, _ := g.Parent(usage(t, g, "2").Idx)
	assert.Equal(t, fam, p2)

	assert.Equal(t, 1, res.Summary.Issues["TAXON_ID_INVALID"])
	assert.Equal(t, 2, res.Summary.Issues["ACCEPTED_ID_INVALID"])
	assert.Equal(t, 1, res.Summary.Issues["SYNONYM_DATA_MOVED"])
	assert.Equal(t, 9, res.Summary.Taxa)
	assert.Equal(t, 1, res.Summary.Synonyms)
	assert.Equal(t, 6, res.Summary.Synthetic)
	assert.Equal(t, 1, res.Summary.BareNames)
}

func TestBasionymCycles(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	res := normalize(t, cfg, iotesting.ColDPBasionyms(), nil)
	g := res.Graph

	name := func(id string) *graph.Node {
		n, ok := g.ByID(graph.NameNode, id)
		require.True(t, ok, "name %s", id)
		return n
	}
	basionym := func(id string) string {
		b, ok := g.Basionym(name(id).Idx)
		if !ok {
			return ""
		}
		return g.Node(b).ID
	}
	chained := func(id string) bool {
		return issuesOf(res, name(id).VerbatimKey).Has(issue.ChainedBasionym)
	}

	tests := []struct {
		msg, id, basionym, homotypic string
		chained                      bool
	}{
		{"1->2 kept", "1", "2", "2", true},
		{"2->1 dropped", "2", "", "2", true},
		{"10->11 kept", "10", "11", "11", true},
		{"11->12 dropped", "11", "", "11", true},
		{"12->10 dropped", "12", "", "", false},
		{"13->11 kept", "13", "11", "11", true},
		{"20->21 kept", "20", "21", "21", false},
		{"21 sink", "21", "", "21", false},
		{"30->31 dropped", "30", "", "30", true},
		{"31->30 kept", "31", "30", "30", true},
		{"tail 32->30 kept", "32", "30", "30", true},
		{"tail 33->32 kept", "33", "32", "30", true},
		{"40->41 kept", "40", "41", "41", true},
		{"41->42 dropped", "41", "", "41", true},
		{"45->41 kept", "45", "41", "41", true},
		{"46->41 kept", "46", "41", "41", true},
		{"42->40 dropped", "42", "", "42", false},
		{"tail 43->42 kept", "43", "42", "42", false},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Equal(t, v.basionym, basionym(v.id))
			assert.Equal(t, v.chained, chained(v.id))
			if v.homotypic != "" {
				assert.Equal(t, v.homotypic, name(v.id).Name.HomotypicNameID)
			} else {
				assert.NotEqual(t, "11", name(v.id).Name.HomotypicNameID)
			}
		})
	}
	assert.Equal(t, 11, res.Summary.Basionyms)
	assert.NoError(t, g.Check())
}

func TestBasionymRefs(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	res := normalize(t, cfg, iotesting.ColDPBasionymRefs(), nil)
	g := res.Graph

	name := func(id string) *graph.Node {
		n, ok := g.ByID(graph.NameNode, id)
		require.True(t, ok, "name %s", id)
		return n
	}

	tests := []struct {
		msg       string
		key       int64
		iss       issue.Issue
		has       bool
		id        string
		basionym  string
		homotypic string
	}{
		{"self reference", 1, issue.BasionymIDInvalid, true, "1", "", ""},
		{"unresolvable", 2, issue.BasionymIDInvalid, true, "2", "", ""},
		{"first basionym wins", 3, issue.BasionymIDInvalid, false, "3", "4", "4"},
		{"second basionym", 9, issue.BasionymIDInvalid, true, "", "", ""},
		{"chain head", 6, issue.ChainedBasionym, true, "6", "7", "8"},
		{"chain middle", 7, issue.ChainedBasionym, true, "7", "8", "8"},
		{"chain sink", 8, issue.ChainedBasionym, false, "8", "", "8"},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			assert.Equal(t, v.has, issuesOf(res, v.key).Has(v.iss))
			if v.id == "" {
				return
			}
			n := name(v.id)
			b, ok := g.Basionym(n.Idx)
			if v.basionym == "" {
				assert.False(t, ok)
			} else {
				require.True(t, ok)
				assert.Equal(t, v.basionym, g.Node(b).ID)
			}
			if v.homotypic != "" {
				assert.Equal(t, v.homotypic, n.Name.HomotypicNameID)
			}
		})
	}
	assert.Equal(t, 3, res.Summary.Basionyms)
	assert.Equal(t, 3, res.Summary.Issues["BASIONYM_ID_INVALID"])
}

func TestLinks(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	res := normalize(t, cfg, iotesting.ColDPLinks(), nil)
	g := res.Graph

	parent := func(t *testing.T, id string) string {
		p, ok := g.Parent(usage(t, g, id).Idx)
		if !ok {
			return ""
		}
		return g.Node(p).ID
	}

	t.Run("parent is synonym", func(t *testing.T) {
		assert.Equal(t, "2", parent(t, "4"))
		assert.True(t, issuesOf(res, 4).Has(issue.ParentIsSynonym))
		assert.False(t, issuesOf(res, 4).Has(issue.ParentIDInvalid))
	})

	t.Run("parent cycle", func(t *testing.T) {
		assert.Equal(t, "6", parent(t, "5"))
		assert.Equal(t, "", parent(t, "6"))
		assert.False(t, issuesOf(res, 5).Has(issue.ParentCycle))
		assert.True(t, issuesOf(res, 6).Has(issue.ParentCycle))
	})

	t.Run("conflicting parent", func(t *testing.T) {
		assert.Equal(t, "1", parent(t, "7"))
		assert.Equal(t, "Aus dus", g.NameOf(usage(t, g, "7").Idx).ScientificName)
		assert.False(t, issuesOf(res, 7).Has(issue.ConflictingParent))
		assert.True(t, issuesOf(res, 8).Has(issue.ConflictingParent))
		assert.True(t, issuesOf(res, 8).Has(issue.IDNotUnique))
	})

	t.Run("accepted is synonym", func(t *testing.T) {
		syn := usage(t, g, "8")
		assert.Equal(t, graph.Synonym, syn.Label)
		assert.Equal(t, []int{usage(t, g, "2").Idx}, g.Accepted(syn.Idx))
		assert.True(t, issuesOf(res, 9).Has(issue.AcceptedIsSynonym))
		assert.False(t, issuesOf(res, 3).Has(issue.AcceptedIsSynonym))
		for _, acc := range g.Accepted(syn.Idx) {
			assert.Equal(t, graph.Taxon, g.Node(acc).Label)
		}
	})

	t.Run("misapplied pro parte", func(t *testing.T) {
		mis := usage(t, g, "10")
		assert.Equal(t, nomen.Misapplied, mis.Status)
		assert.Equal(t,
			[]int{usage(t, g, "2").Idx, usage(t, g, "7").Idx},
			g.Accepted(mis.Idx))
	})

	t.Run("placeholder higher taxon", func(t *testing.T) {
		p, ok := g.Parent(usage(t, g, "9").Idx)
		require.True(t, ok)
		pn := g.NameOf(p)
		assert.Equal(t, "Not assigned", pn.ScientificName)
		assert.Equal(t, nomen.Placeholder, pn.Type)
		assert.Equal(t, nomen.Family, pn.Rank)
		assert.True(t, g.Node(p).Synthetic)
	})

	assert.NoError(t, g.Check())
}

func TestSynonymChainOrder(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)

	type shape struct {
		synonyms, invalid int
		s1Issues, s2Issues issue.Set
		accepted           string
		data               int
	}
	get := func(t *testing.T, res *gnnorm.Result) shape {
		g := res.Graph
		_, ok := g.ByID(graph.UsageNode, "s1")
		assert.False(t, ok)
		n1, ok := g.ByID(graph.NameNode, "s1")
		require.True(t, ok)
		uu := g.UsagesOf(n1.Idx)
		require.Len(t, uu, 1)
		implicit := uu[0]
		assert.Equal(t, graph.Taxon, implicit.Label)
		assert.True(t, implicit.Synthetic)

		s2 := usage(t, g, "s2")
		acc := g.Accepted(s2.Idx)
		require.Len(t, acc, 1)
		return shape{
			synonyms: res.Summary.Synonyms,
			invalid:  res.Summary.Issues["ACCEPTED_ID_INVALID"],
			s1Issues: issuesOf(res, n1.VerbatimKey),
			s2Issues: issuesOf(res, s2.VerbatimKey),
			accepted: g.NameOf(acc[0]).ScientificName,
			data:     len(implicit.Data),
		}
	}

	tests := []struct {
		msg      string
		reversed bool
	}{
		{"source before chained synonym", false},
		{"chained synonym before source", true},
	}
	var shapes []shape
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res := normalize(t, cfg, iotesting.ColDPSynonymChain(v.reversed), nil)
			sh := get(t, res)
			assert.Equal(t, 1, sh.synonyms)
			assert.Equal(t, 1, sh.invalid)
			assert.Equal(t, "Aus cus", sh.accepted)
			assert.Equal(t, 1, sh.data)
			assert.True(t, sh.s1Issues.Has(issue.SynonymDataMoved))
			assert.True(t, sh.s1Issues.Has(issue.AcceptedIDInvalid))
			assert.False(t, sh.s2Issues.Has(issue.AcceptedIDInvalid))
			shapes = append(shapes, sh)
		})
	}
	require.Len(t, shapes, 2)
	assert.Equal(t, shapes[0], shapes[1])
}

func TestDuplicates(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	res := normalize(t, cfg, iotesting.ColDPDuplicates(), nil)
	g := res.Graph

	sp := usage(t, g, "2")
	assert.Equal(t, "Aus bus", g.NameOf(sp.Idx).ScientificName)
	assert.False(t, issuesOf(res, sp.VerbatimKey).Has(issue.IDNotUnique))
	assert.True(t, issuesOf(res, 3).Has(issue.IDNotUnique))
	assert.Empty(t, g.ByName("Aus cus"))

	sub := usage(t, g, "3")
	p, ok := g.Parent(sub.Idx)
	require.True(t, ok)
	assert.Equal(t, sp.Idx, p)

	syn := usage(t, g, "5")
	assert.Equal(t, graph.Synonym, syn.Label)
	assert.Equal(t, []int{sp.Idx}, g.Accepted(syn.Idx))

	orphan := usage(t, g, "4")
	assert.True(t, issuesOf(res, orphan.VerbatimKey).Has(issue.ParentIDInvalid))
	root, ok := g.Parent(orphan.Idx)
	require.True(t, ok)
	rootName := g.NameOf(root)
	assert.Equal(t, "Incertae sedis", rootName.ScientificName)
	assert.Equal(t, nomen.Placeholder, rootName.Type)
	assert.True(t, g.Node(root).Synthetic)
	assert.NotEmpty(t, g.Node(root).ID)

	ids := make(map[string]int)
	for n := range g.Nodes(graph.UsageNode) {
		ids[n.ID]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, id)
	}
	assert.Equal(t, 5, res.Summary.Taxa)
	assert.Equal(t, 1, res.Summary.Synonyms)
	assert.Equal(t, 1, res.Summary.Issues["ID_NOT_UNIQUE"])
}

func TestColDPNames(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	res := normalize(t, cfg, iotesting.ColDPNames(), nil)
	g := res.Graph
	assert.Equal(t, "ColDP", res.Summary.Format)

	t2, t3 := usage(t, g, "t2"), usage(t, g, "t3")
	s1 := usage(t, g, "s1")
	assert.Equal(t, nomen.AmbiguousSynonym, s1.Status)
	assert.Equal(t, []int{t2.Idx, t3.Idx}, g.Accepted(s1.Idx))
	assert.Equal(t, "Bus bus", g.NameOf(s1.Idx).ScientificName)

	s2 := usage(t, g, "s2")
	assert.Equal(t, []int{t2.Idx}, g.Accepted(s2.Idx))
	n5 := g.Node(s2.NameIdx)
	assert.True(t, issuesOf(res, n5.VerbatimKey).Has(issue.UnusualNameCharacters))

	n4, ok := g.ByID(graph.NameNode, "n4")
	require.True(t, ok)
	b, ok := g.Basionym(n4.Idx)
	require.True(t, ok)
	assert.Equal(t, "n2", g.Node(b).ID)
	assert.Equal(t, "n2", n4.Name.HomotypicNameID)

	t1 := usage(t, g, "t1")
	fam, ok := g.Parent(t1.Idx)
	require.True(t, ok)
	assert.Equal(t, "Aidae", g.NameOf(fam).ScientificName)
	assert.Equal(t, []int{t2.Idx, t3.Idx}, g.Children(t1.Idx))
	assert.Equal(t, 0, res.Summary.BareNames)
}

func TestDWCA(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	res := normalize(t, cfg, iotesting.DWCA(), nil)
	g := res.Graph
	assert.Equal(t, "DWCA", res.Summary.Format)

	sp := usage(t, g, "3")
	assert.Len(t, sp.Data, 1)
	syn := usage(t, g, "4")
	assert.Equal(t, []int{sp.Idx}, g.Accepted(syn.Idx))
	assert.Equal(t, nomen.Botanical, g.NameOf(sp.Idx).Code)

	var lineage []string
	for cur, ok := g.Parent(sp.Idx); ok; cur, ok = g.Parent(cur) {
		lineage = append(lineage, g.NameOf(cur).ScientificName)
	}
	assert.Equal(t, []string{"Rosa", "Rosaceae", "Plantae"}, lineage)
}

func TestMatch(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	idx := namesindex.NewMemory()
	err := idx.Add(context.Background(), []*nomen.Name{
		{ScientificName: "Aus bus", Canonical: "Aus bus", Authorship: "Smith, 1900",
			Rank: nomen.Species, Type: nomen.Scientific},
	})
	require.NoError(t, err)

	res := normalize(t, cfg, iotesting.ColDPDuplicates(), idx)
	g := res.Graph
	sp := usage(t, g, "2")
	name := g.NameOf(sp.Idx)
	assert.NotEmpty(t, name.NamesIndexID)
	assert.NotEqual(t, nomen.MatchNone, name.MatchType)

	other := usage(t, g, "4")
	assert.Equal(t, nomen.MatchNone, g.NameOf(other.Idx).MatchType)
	assert.True(t, issuesOf(res, other.VerbatimKey).Has(issue.NameMatchNone))
}

func TestMatchOff(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	cfg.Update([]config.Option{config.OptNormalizerMatchNames(false)})
	res := normalize(t, cfg, iotesting.ColDPDuplicates(), namesindex.NewMemory())
	assert.Zero(t, res.Summary.Issues["NAME_MATCH_NONE"])
}

func TestIdempotence(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	a := iotesting.ACEFSynonyms()

	type edge struct{ from, to string }
	shape := func(res *gnnorm.Result) ([]edge, []issue.Set) {
		g := res.Graph
		var edges []edge
		for _, rt := range []graph.RelType{graph.ParentOf, graph.SynonymOf, graph.HasBasionym} {
			for r := range g.Rels(rt) {
				edges = append(edges, edge{g.Node(r.From).ID, g.Node(r.To).ID})
			}
		}
		var iss []issue.Set
		for rec := range res.Verbatim.All() {
			iss = append(iss, rec.Issues)
		}
		return edges, iss
	}

	e1, i1 := shape(normalize(t, cfg, a, nil))
	e2, i2 := shape(normalize(t, cfg, a, nil))
	assert.Equal(t, e1, e2)
	assert.Equal(t, i1, i2)
}

type cancelingMatcher struct {
	cancel context.CancelFunc
}

func (c cancelingMatcher) Match(ctx context.Context, _ *nomen.Name) (namesindex.Match, error) {
	c.cancel()
	return namesindex.Match{}, ctx.Err()
}

func TestCancel(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	pool := parserpool.NewPool(1)
	defer pool.Close()
	dir := iotesting.WriteArchive(t, iotesting.ColDPDuplicates())

	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(cfg, pool, nil).Normalize(ctx, gnnorm.Request{Dir: dir})
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.NormalizeCanceledError, gnErr.Code)
	})

	t.Run("during matching", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		m := cancelingMatcher{cancel: cancel}
		_, err := New(cfg, pool, m).Normalize(ctx, gnnorm.Request{
			DatasetKey: "canceled",
			Dir:        dir,
		})
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.NormalizeCanceledError, gnErr.Code)

		_, err = os.Stat(config.StoreDir(cfg.HomeDir, "canceled"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestLinkCancel(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	pool := parserpool.NewPool(1)
	defer pool.Close()

	var rows [][]string
	rows = append(rows, []string{"ID", "parentID", "scientificName"})
	for i := range 50 {
		rows = append(rows, []string{string(rune('a'+i%26)) + string(rune('A'+i/26)), "", "Aus bus"})
	}
	dir := iotesting.WriteArchive(t, iotesting.Archive{"NameUsage.tsv": iotesting.TSV(rows...)})

	r := newRun(cfg, "link", nomen.Zoological, pool, namesindex.PassThrough{})
	var err error
	r.reader, err = ioarchive.New(dir)
	require.NoError(t, err)
	require.NoError(t, r.insert(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = r.link(ctx)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.NormalizeCanceledError, gnErr.Code)
}

func TestParseFailure(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	pool := parserpool.NewPool(1)
	defer pool.Close()
	dir := iotesting.WriteArchive(t, iotesting.Archive{
		"NameUsage.tsv": iotesting.TSV(
			[]string{"ID", "scientificName"},
			[]string{"1", "123 456"},
			[]string{"2", "!!!"},
		),
	})
	_, err := New(cfg, pool, nil).Normalize(context.Background(), gnnorm.Request{Dir: dir})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.NormalizeParseError, gnErr.Code)

	key := filepath.Base(dir)
	_, err = os.Stat(config.StoreDir(cfg.HomeDir, key))
	assert.True(t, os.IsNotExist(err))
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind()
	uf.union(5, 3)
	uf.union(3, 9)
	uf.union(1, 2)
	uf.union(7, 7)
	got := uf.components()
	assert.Equal(t, [][]int{{1, 2}, {3, 5, 9}, {7}}, got)
	assert.True(t, slices.IsSorted(got[1]))
}

func TestSyntheticIDsExhausted(t *testing.T) {
	cfg := iotesting.GetTestConfig(t)
	cfg.Normalizer.IDAlphabet = "AB"
	cfg.Normalizer.IDReservedPrefixes = []string{"A", "B"}
	pool := parserpool.NewPool(1)
	defer pool.Close()

	dir := iotesting.WriteArchive(t, iotesting.ColDPDuplicates())
	_, err := New(cfg, pool, nil).Normalize(context.Background(), gnnorm.Request{
		DatasetKey: "exhausted",
		Dir:        dir,
	})
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.NormalizeLinkError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, idgen.ErrExhausted)
}
