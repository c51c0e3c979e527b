package ioarchive_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnnorm/internal/ioarchive"
	"github.com/gnames/gnnorm/internal/iotesting"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnnorm/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, dir string) (ioarchive.Format, []*verbatim.Record, error) {
	t.Helper()
	r, err := ioarchive.New(dir)
	require.NoError(t, err)

	ch := make(chan *verbatim.Record)
	done := make(chan struct{})
	var recs []*verbatim.Record
	go func() {
		for rec := range ch {
			recs = append(recs, rec)
		}
		close(done)
	}()
	err = r.Read(context.Background(), ch)
	<-done
	return r.Format(), recs, err
}

func byID(recs []*verbatim.Record, rt verbatim.RowType, id string) *verbatim.Record {
	for _, r := range recs {
		if r.Type == rt && r.Get(verbatim.ID) == id {
			return r
		}
	}
	return nil
}

func TestDetect(t *testing.T) {
	tests := []struct {
		msg string
		a   iotesting.Archive
		f   ioarchive.Format
	}{
		{"acef", iotesting.ACEFSynonyms(), ioarchive.ACEF},
		{"coldp", iotesting.ColDPBasionyms(), ioarchive.ColDP},
		{"coldp csv", iotesting.ColDPNames(), ioarchive.ColDP},
		{"dwca", iotesting.DWCA(), ioarchive.DWCA},
		{"dwca bare", iotesting.Archive{"Taxa.txt": "taxonID\n1\n"}, ioarchive.DWCA},
	}

	for _, v := range tests {
		dir := iotesting.WriteArchive(t, v.a)
		f, err := ioarchive.Detect(dir)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.f, f, v.msg)
	}
}

func TestDetectErrors(t *testing.T) {
	dir := iotesting.WriteArchive(t, iotesting.Archive{"readme.md": "hi"})
	_, err := ioarchive.Detect(dir)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArchiveFormatError, gnErr.Code)

	_, err = ioarchive.New(filepath.Join(dir, "nope"))
	require.Error(t, err)
	gnErr, ok = err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArchiveDirError, gnErr.Code)
}

func TestACEF(t *testing.T) {
	dir := iotesting.WriteArchive(t, iotesting.ACEFSynonyms())
	f, recs, err := readAll(t, dir)
	require.NoError(t, err)
	assert.Equal(t, ioarchive.ACEF, f)
	assert.Len(t, recs, 11)

	// usages come before extensions
	assert.Equal(t, verbatim.Usage, recs[0].Type)
	assert.Equal(t, verbatim.Usage, recs[5].Type)
	assert.True(t, recs[6].Type.IsExtension())

	sp := byID(recs, verbatim.Usage, "1")
	require.NotNil(t, sp)
	assert.Equal(t, "species", sp.Get(verbatim.Rank))
	assert.Equal(t, "Linnaeus, 1761", sp.Get(verbatim.Authorship))
	assert.Equal(t, "Carabidae", sp.Get(verbatim.Family))
	assert.Equal(t, "AcceptedSpecies.txt", sp.File)
	assert.Equal(t, 2, sp.Line)

	infra := byID(recs, verbatim.Usage, "3")
	require.NotNil(t, infra)
	assert.Equal(t, "Carabus", infra.Get(verbatim.Genus))
	assert.Equal(t, "auratus", infra.Get(verbatim.SpecificEpithet))
	assert.Equal(t, "subspecies", infra.Get(verbatim.Rank))
	assert.Equal(t, "Dejean, 1826", infra.Get(verbatim.Authorship))
	assert.Equal(t, "1", infra.Get(verbatim.ParentID))

	syn := byID(recs, verbatim.Usage, "11")
	require.NotNil(t, syn)
	assert.Equal(t, "999", syn.Get(verbatim.AcceptedID))
	assert.Equal(t, "Linnaeus, 1758", syn.Get(verbatim.Authorship))

	var dist []*verbatim.Record
	for _, r := range recs {
		if r.Type == verbatim.Distribution {
			dist = append(dist, r)
		}
	}
	require.Len(t, dist, 2)
	assert.Equal(t, "12", dist[1].Get(verbatim.TaxonID))
	assert.Equal(t, "Spain", dist[1].Get("DistributionElement"))
}

func TestDWCA(t *testing.T) {
	dir := iotesting.WriteArchive(t, iotesting.DWCA())
	f, recs, err := readAll(t, dir)
	require.NoError(t, err)
	assert.Equal(t, ioarchive.DWCA, f)
	// the species profile extension is not read
	assert.Len(t, recs, 5)

	rosa := byID(recs, verbatim.Usage, "3")
	require.NotNil(t, rosa)
	assert.Equal(t, "2", rosa.Get(verbatim.ParentID))
	assert.Equal(t, "Plantae", rosa.Get(verbatim.Kingdom))
	assert.Equal(t, "ICN", rosa.Get(verbatim.Code))

	// fields are not enclosed, quotes stay
	syn := byID(recs, verbatim.Usage, "4")
	require.NotNil(t, syn)
	assert.Equal(t, `Rosa "dumalis" Bechst.`, syn.Get(verbatim.ScientificName))
	assert.Equal(t, "3", syn.Get(verbatim.AcceptedID))

	vern := recs[4]
	assert.Equal(t, verbatim.Vernacular, vern.Type)
	assert.Equal(t, "3", vern.Get(verbatim.TaxonID))
	assert.Equal(t, "Dog rose", vern.Get("vernacularname"))
}

func TestDWCABadCore(t *testing.T) {
	a := iotesting.DWCA()
	a["meta.xml"] = `<archive><core rowType="http://rs.tdwg.org/dwc/terms/Occurrence">
<files><location>taxa.txt</location></files></core></archive>`
	dir := iotesting.WriteArchive(t, a)
	_, _, err := readAll(t, dir)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArchiveMetaError, gnErr.Code)
}

func TestDWCABare(t *testing.T) {
	dir := iotesting.WriteArchive(t, iotesting.Archive{
		"taxa.txt": "dwc:taxonID,dwc:scientificName,dwc:taxonRank\n" +
			"1,\"Aus bus Smith, 1900\",species\n",
	})
	_, recs, err := readAll(t, dir)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0].Get(verbatim.ID))
	assert.Equal(t, "Aus bus Smith, 1900", recs[0].Get(verbatim.ScientificName))
}

func TestColDP(t *testing.T) {
	dir := iotesting.WriteArchive(t, iotesting.ColDPNames())
	f, recs, err := readAll(t, dir)
	require.NoError(t, err)
	assert.Equal(t, ioarchive.ColDP, f)
	require.Len(t, recs, 11)

	for i := range 5 {
		assert.Equal(t, verbatim.Name, recs[i].Type)
	}
	assert.Equal(t, verbatim.NameRelation, recs[10].Type)

	n2 := byID(recs, verbatim.Name, "n2")
	require.NotNil(t, n2)
	assert.Equal(t, "Smith, 1900", n2.Get(verbatim.Authorship))

	t1 := byID(recs, verbatim.Usage, "t1")
	require.NotNil(t, t1)
	assert.Equal(t, "accepted", t1.Get(verbatim.Status))
	assert.Equal(t, "n1", t1.Get(verbatim.NameID))
	assert.Equal(t, "Aidae", t1.Get(verbatim.Family))

	s1 := byID(recs, verbatim.Usage, "s1")
	require.NotNil(t, s1)
	assert.Equal(t, "t2|t3", s1.Get(verbatim.AcceptedID))
	s2 := byID(recs, verbatim.Usage, "s2")
	require.NotNil(t, s2)
	assert.Equal(t, "synonym", s2.Get(verbatim.Status))

	rel := recs[10]
	assert.Equal(t, "n4", rel.Get(verbatim.NameID))
	assert.Equal(t, "n2", rel.Get(verbatim.RelatedNameID))
	assert.Equal(t, "basionym", rel.Get(verbatim.RelationType))
}

func TestColDPMissing(t *testing.T) {
	a := iotesting.ColDPNames()
	delete(a, "Taxon.csv")
	dir := iotesting.WriteArchive(t, a)
	_, _, err := readAll(t, dir)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ArchiveMissingFileError, gnErr.Code)
}

func TestReadCanceled(t *testing.T) {
	dir := iotesting.WriteArchive(t, iotesting.ColDPBasionyms())
	r, err := ioarchive.New(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := make(chan *verbatim.Record)
	err = r.Read(ctx, ch)
	assert.ErrorIs(t, err, context.Canceled)
	_, open := <-ch
	assert.False(t, open)
}
