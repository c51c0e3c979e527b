package ionormalize

import (
	"context"
	"log/slog"

	gnnorm "github.com/gnames/gnnorm/pkg"
	"github.com/gnames/gnnorm/pkg/graph"
)

// aggregate verifies the structural invariants of the graph and closes it.
// A violation means a bug in an earlier pass, not bad data.
func (r *run) aggregate(_ context.Context) error {
	if err := r.g.Check(); err != nil {
		return CheckError(r.key, err)
	}
	r.g.Close()

	hist := r.vs.Histogram()
	for i, v := range hist {
		slog.Debug("Issue count", "dataset_key", r.key, "issue", i.String(), "records", v)
	}
	return nil
}

func (r *run) summary() gnnorm.Summary {
	res := gnnorm.Summary{
		DatasetKey: r.key,
		Records:    r.vs.Len(),
		Taxa:       r.g.CountLabel(graph.Taxon),
		Synonyms:   r.g.CountLabel(graph.Synonym),
		Basionyms:  countRels(r.g, graph.HasBasionym),
		Issues:     r.vs.Histogram().ByName(),
	}
	if r.reader != nil {
		res.Format = r.reader.Format().String()
	}

	for n := range r.g.Nodes(graph.NameNode) {
		res.Names++
		if len(r.g.UsagesOf(n.Idx)) == 0 {
			res.BareNames++
		}
	}
	for n := range r.g.Nodes(graph.UsageNode) {
		if n.Synthetic {
			res.Synthetic++
		}
	}
	return res
}
