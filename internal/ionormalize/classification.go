package ionormalize

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnnorm/pkg/interpret"
)

// classify builds synthetic higher taxa from denormalized classifications
// and interposes them between taxa and their parents.
func (r *run) classify(ctx context.Context) error {
	total := r.g.Len()
	before := len(r.higher)

	var count int
	for idx := range total {
		u, ok := r.usages[idx]
		if !ok || len(u.Classification) == 0 {
			continue
		}
		n := r.g.Node(idx)
		if !n.IsTaxon() {
			continue
		}
		if err := r.checkCancel(ctx, count, "classification"); err != nil {
			return err
		}
		count++
		if err := r.classifyTaxon(n, u); err != nil {
			return err
		}
	}

	if err := r.pruneIncertae(); err != nil {
		return err
	}

	slog.Info("Classification built",
		"dataset_key", r.key,
		"higher_taxa", humanize.Comma(int64(len(r.higher)-before)),
	)
	return nil
}

func (r *run) classifyTaxon(n *graph.Node, u *interpret.Usage) error {
	own := r.g.NameOf(n.Idx)
	lowest := -1
	for _, rn := range u.Classification {
		if own != nil {
			if own.Rank != nomen.Unranked && !rn.Rank.IsHigherThan(own.Rank) {
				continue
			}
			if rn.Name == own.ScientificName || rn.Name == own.Canonical {
				continue
			}
		}
		h, err := r.higherFor(rn, u.Code)
		if err != nil {
			return err
		}
		if h == n.Idx {
			continue
		}
		if lowest >= 0 {
			if _, ok := r.g.Parent(h); !ok {
				if _, err = r.attach(lowest, h); err != nil {
					return err
				}
			}
		}
		lowest = h
	}
	if lowest < 0 {
		return nil
	}
	return r.interpose(lowest, n.Idx)
}

// higherFor finds a taxon for a classification entry. Existing taxa with
// the same name and rank are reused, otherwise a synthetic taxon is made.
func (r *run) higherFor(rn nomen.RankedName, code nomen.Code) (int, error) {
	if idx, ok := r.higher[rn]; ok {
		return idx, nil
	}
	for _, nn := range r.g.ByName(rn.Name) {
		if nn.Name.Rank != rn.Rank {
			continue
		}
		for _, un := range r.g.UsagesOf(nn.Idx) {
			if un.IsTaxon() {
				r.higher[rn] = un.Idx
				return un.Idx, nil
			}
		}
	}
	idx, err := r.higherTaxon(rn, r.intr.HigherName(rn, code))
	if err != nil {
		return -1, err
	}
	r.higher[rn] = idx
	return idx, nil
}

// interpose places the lowest higher taxon h above usage u, keeping the
// existing parent of u when it is ranked below h.
func (r *run) interpose(h, u int) error {
	p, ok := r.g.Parent(u)
	if !ok {
		_, err := r.attach(h, u)
		return err
	}
	if p == h {
		return nil
	}

	pRank := nomen.Unranked
	if pn := r.g.NameOf(p); pn != nil {
		pRank = pn.Rank
	}
	hRank := nomen.Unranked
	if hn := r.g.NameOf(h); hn != nil {
		hRank = hn.Rank
	}

	switch {
	case p == r.incertae, pRank.IsHigherThan(hRank):
		if err := r.detach(u); err != nil {
			return err
		}
		if p != r.incertae {
			if _, ok := r.g.Parent(h); !ok {
				if _, err := r.attach(p, h); err != nil {
					return err
				}
			}
		}
		added, err := r.attach(h, u)
		if err != nil || added {
			return err
		}
		_, err = r.attach(p, u)
		return err
	default:
		if _, ok := r.g.Parent(p); !ok {
			_, err := r.attach(h, p)
			return err
		}
	}
	return nil
}

// attach adds a parent link unless it would close a cycle or the child
// already has a parent.
func (r *run) attach(parent, child int) (bool, error) {
	if parent == child || r.g.IsAncestor(child, parent) {
		return false, nil
	}
	_, err := r.g.AddRel(graph.ParentOf, parent, child)
	if errors.Is(err, graph.ErrConflictingParent) {
		return false, nil
	}
	if err != nil {
		return false, LinkError(r.key, r.g.Node(child).ID, err)
	}
	return true, nil
}

func (r *run) detach(child int) error {
	for _, rel := range r.g.InRels(child, graph.ParentOf) {
		if err := r.g.RemoveRel(rel.Idx); err != nil {
			return LinkError(r.key, r.g.Node(child).ID, err)
		}
	}
	return nil
}

// pruneIncertae removes the incertae sedis root when classification
// placed all its children elsewhere.
func (r *run) pruneIncertae() error {
	if r.incertae < 0 || len(r.g.Children(r.incertae)) > 0 {
		return nil
	}
	n := r.g.Node(r.incertae)
	if err := r.g.DeleteNode(n.Idx); err != nil {
		return LinkError(r.key, incertaeSedis, err)
	}
	if err := r.g.DeleteNode(n.NameIdx); err != nil {
		return LinkError(r.key, incertaeSedis, err)
	}
	r.incertae = -1
	return nil
}
