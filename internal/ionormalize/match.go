package ionormalize

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnnorm/pkg/namesindex"
)

// match looks up parsable names in the names index. Lookup failures are
// logged and never stop the run.
func (r *run) match(ctx context.Context) error {
	if _, ok := r.matcher.(namesindex.PassThrough); ok {
		slog.Info("Names matching is off", "dataset_key", r.key)
		return nil
	}

	var count, matched, failed int
	for n := range r.g.Nodes(graph.NameNode) {
		if n.Name == nil || !n.Name.Type.IsParsable() {
			continue
		}
		if err := r.checkCancel(ctx, count, "match"); err != nil {
			return err
		}
		count++

		m, err := r.matcher.Match(ctx, n.Name)
		if err != nil {
			if ctx.Err() != nil {
				return CanceledError(r.key, "match")
			}
			failed++
			slog.Warn("Cannot match name",
				"dataset_key", r.key,
				"name", n.Name.ScientificName,
				"error", err,
			)
			continue
		}

		n.Name.NamesIndexID = m.ID
		n.Name.MatchType = m.Type
		switch m.Type {
		case nomen.MatchNone:
			r.flagName(n.Idx, issue.NameMatchNone)
		case nomen.MatchAmbiguous:
			r.flagName(n.Idx, issue.NameMatchAmbiguous)
			matched++
		default:
			matched++
		}
	}

	slog.Info("Names matched",
		"dataset_key", r.key,
		"names", humanize.Comma(int64(count)),
		"matched", humanize.Comma(int64(matched)),
		"failed", humanize.Comma(int64(failed)),
	)
	return nil
}
