package ionormalize

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnnorm/pkg/idgen"
)

// identity prunes duplicate nodes and gives synthetic ids to live
// anonymous nodes in creation order.
func (r *run) identity(ctx context.Context) error {
	total := r.g.Len()
	var dups int
	for idx := range total {
		if err := r.checkCancel(ctx, idx, "identity"); err != nil {
			return err
		}
		n := r.g.Node(idx)
		if n.Deleted || n.DuplicateOf == "" {
			continue
		}
		if n.Kind == graph.NameNode {
			r.redirectUsages(n)
		}
		if err := r.g.DeleteNode(idx); err != nil {
			return LinkError(r.key, n.DuplicateOf, err)
		}
		dups++
	}

	gen := idgen.New(
		idgen.OptAlphabet(r.cfg.Normalizer.IDAlphabet),
		idgen.OptExclusions(r.cfg.Normalizer.IDReservedPrefixes...),
		idgen.OptExists(r.g.HasID),
	)
	var assigned int
	for idx := range total {
		n := r.g.Node(idx)
		if n.Deleted || n.ID != "" {
			continue
		}
		id, err := gen.Next()
		if err != nil {
			return LinkError(r.key, "", err)
		}
		if err = r.g.AssignID(idx, id); err != nil {
			return LinkError(r.key, "", err)
		}
		if n.Kind == graph.NameNode && n.Name != nil {
			n.Name.ID = n.ID
		}
		assigned++
	}

	slog.Info("Identities settled",
		"dataset_key", r.key,
		"duplicates", humanize.Comma(int64(dups)),
		"synthetic_ids", humanize.Comma(int64(assigned)),
	)
	return nil
}

// redirectUsages moves live usages of a duplicate name node to the
// canonical node with the same id.
func (r *run) redirectUsages(n *graph.Node) {
	canonical, ok := r.g.ByID(graph.NameNode, n.DuplicateOf)
	if !ok {
		return
	}
	for _, u := range r.g.UsagesOf(n.Idx) {
		r.g.SetUsageName(u.Idx, canonical.Idx)
	}
}
