package graph

import (
	"iter"
)

// AddRel creates a typed relationship. Creating an existing live
// relationship again returns it unchanged. A second ParentOf into a node
// that already has a parent is refused with ErrConflictingParent.
func (g *Graph) AddRel(t RelType, from, to int) (*Rel, error) {
	if g.closed {
		return nil, GraphClosedError(g.datasetKey)
	}
	if g.Node(from) == nil {
		return nil, NodeNotFoundError(g.datasetKey, from)
	}
	if g.Node(to) == nil {
		return nil, NodeNotFoundError(g.datasetKey, to)
	}
	if from == to {
		return nil, ErrSelfLoop
	}
	for _, ri := range g.out[from] {
		r := g.rels[ri]
		if !r.Deleted && r.Type == t && r.To == to {
			return r, nil
		}
	}
	if t == ParentOf && len(g.in[to]) > 0 {
		if _, ok := g.Parent(to); ok {
			return nil, ErrConflictingParent
		}
	}

	r := &Rel{Idx: len(g.rels), Type: t, From: from, To: to}
	g.rels = append(g.rels, r)
	g.out[from] = append(g.out[from], r.Idx)
	g.in[to] = append(g.in[to], r.Idx)
	return r, nil
}

// RemoveRel deletes a relationship.
func (g *Graph) RemoveRel(idx int) error {
	if g.closed {
		return GraphClosedError(g.datasetKey)
	}
	if idx >= 0 && idx < len(g.rels) {
		g.rels[idx].Deleted = true
	}
	return nil
}

// Rel returns a relationship by index or nil.
func (g *Graph) Rel(idx int) *Rel {
	if idx < 0 || idx >= len(g.rels) {
		return nil
	}
	return g.rels[idx]
}

// Rels iterates over live relationships of a type in insertion order.
func (g *Graph) Rels(t RelType) iter.Seq[*Rel] {
	return func(yield func(*Rel) bool) {
		for _, r := range g.rels {
			if r.Deleted || r.Type != t {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

// OutRels returns live outgoing relationships of a type.
func (g *Graph) OutRels(idx int, t RelType) []*Rel {
	return g.collect(g.out, idx, t)
}

// InRels returns live incoming relationships of a type.
func (g *Graph) InRels(idx int, t RelType) []*Rel {
	return g.collect(g.in, idx, t)
}

func (g *Graph) collect(adj [][]int, idx int, t RelType) []*Rel {
	if idx < 0 || idx >= len(adj) {
		return nil
	}
	var res []*Rel
	for _, ri := range adj[idx] {
		if r := g.rels[ri]; !r.Deleted && r.Type == t {
			res = append(res, r)
		}
	}
	return res
}

// Parent returns the parent taxon of a node.
func (g *Graph) Parent(idx int) (int, bool) {
	rr := g.InRels(idx, ParentOf)
	if len(rr) == 0 {
		return -1, false
	}
	return rr[0].From, true
}

// Children returns child nodes in insertion order.
func (g *Graph) Children(idx int) []int {
	var res []int
	for _, r := range g.OutRels(idx, ParentOf) {
		res = append(res, r.To)
	}
	return res
}

// Accepted returns the accepted taxa of a synonym.
func (g *Graph) Accepted(idx int) []int {
	var res []int
	for _, r := range g.OutRels(idx, SynonymOf) {
		res = append(res, r.To)
	}
	return res
}

// Synonyms returns synonyms pointing to a taxon.
func (g *Graph) Synonyms(idx int) []int {
	var res []int
	for _, r := range g.InRels(idx, SynonymOf) {
		res = append(res, r.From)
	}
	return res
}

// Basionym returns the first basionym of a name node.
func (g *Graph) Basionym(idx int) (int, bool) {
	rr := g.OutRels(idx, HasBasionym)
	if len(rr) == 0 {
		return -1, false
	}
	return rr[0].To, true
}

// IsAncestor reports whether anc is reachable from idx by walking up the
// parent relationships, idx itself included.
func (g *Graph) IsAncestor(anc, idx int) bool {
	seen := make(map[int]struct{})
	for cur, ok := idx, true; ok; cur, ok = g.Parent(cur) {
		if cur == anc {
			return true
		}
		if _, dup := seen[cur]; dup {
			return false
		}
		seen[cur] = struct{}{}
	}
	return false
}
