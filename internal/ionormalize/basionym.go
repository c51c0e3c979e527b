package ionormalize

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/graph"
)

// resolveBasionyms creates HAS_BASIONYM edges, breaks basionym cycles and
// gives every member of a basionym component the id of its canonical name
// as the homotypic name id.
func (r *run) resolveBasionyms(ctx context.Context) error {
	for i, ref := range r.basionymRefs {
		if err := r.checkCancel(ctx, i, "basionym"); err != nil {
			return err
		}
		if err := r.addBasionym(ref); err != nil {
			return err
		}
	}

	uf := newUnionFind()
	for rel := range r.g.Rels(graph.HasBasionym) {
		uf.union(rel.From, rel.To)
	}

	var groups int
	for _, members := range uf.components() {
		if err := r.checkCancel(ctx, groups, "basionym"); err != nil {
			return err
		}
		groups++
		if err := r.resolveComponent(members); err != nil {
			return err
		}
	}

	slog.Info("Basionyms resolved",
		"dataset_key", r.key,
		"groups", humanize.Comma(int64(groups)),
		"basionyms", humanize.Comma(int64(countRels(r.g, graph.HasBasionym))),
	)
	return nil
}

func (r *run) addBasionym(ref basionymRef) error {
	from := r.g.Node(ref.nameIdx)
	if from == nil || from.Deleted {
		return nil
	}
	to, ok := r.g.ByID(graph.NameNode, ref.id)
	if !ok || to.Idx == from.Idx {
		r.vs.AddIssues(ref.key, issue.BasionymIDInvalid)
		return nil
	}
	if cur, ok := r.g.Basionym(from.Idx); ok {
		if cur != to.Idx {
			r.vs.AddIssues(ref.key, issue.BasionymIDInvalid)
		}
		return nil
	}
	if _, err := r.g.AddRel(graph.HasBasionym, from.Idx, to.Idx); err != nil {
		return BasionymError(r.key, from.ID, err)
	}
	return nil
}

// resolveComponent handles one connected component. Every name has at most
// one basionym, so the component is either a tree with one sink or holds
// exactly one cycle.
func (r *run) resolveComponent(members []int) error {
	cycle := r.findCycle(members[0])
	if len(cycle) == 0 {
		canonical := -1
		for _, m := range members {
			if _, ok := r.g.Basionym(m); !ok {
				canonical = m
				break
			}
		}
		r.flagChains(members)
		r.setHomotypic(members, canonical)
		return nil
	}

	canonical := r.cycleCanonical(cycle)
	for _, m := range cycle {
		for _, rel := range r.g.OutRels(m, graph.HasBasionym) {
			if m != canonical && rel.To == canonical {
				continue
			}
			if err := r.g.RemoveRel(rel.Idx); err != nil {
				return BasionymError(r.key, r.g.Node(m).ID, err)
			}
		}
	}

	// Edges outside the cycle survive. Members whose chain reaches the
	// canonical stay with it, tails hanging on a detached cycle member
	// form their own group.
	bySink := make(map[int][]int)
	var sinks []int
	for _, m := range members {
		sink := r.basionymSink(m)
		if _, ok := bySink[sink]; !ok {
			sinks = append(sinks, sink)
		}
		bySink[sink] = append(bySink[sink], m)
	}
	for _, sink := range sinks {
		group := bySink[sink]
		switch {
		case sink == canonical:
			for _, m := range group {
				r.flagName(m, issue.ChainedBasionym)
			}
		case len(group) == 1:
			continue
		default:
			r.flagChains(group)
		}
		r.setHomotypic(group, sink)
	}
	return nil
}

// flagChains flags CHAINED_BASIONYM on names of an acyclic group that take
// part in a chain of more than one edge.
func (r *run) flagChains(members []int) {
	for _, m := range members {
		b, ok := r.g.Basionym(m)
		if !ok {
			continue
		}
		_, chained := r.g.Basionym(b)
		if chained || len(r.g.InRels(m, graph.HasBasionym)) > 0 {
			r.flagName(m, issue.ChainedBasionym)
		}
	}
}

// basionymSink follows basionym edges of an acyclic component to the end.
func (r *run) basionymSink(idx int) int {
	for {
		next, ok := r.g.Basionym(idx)
		if !ok {
			return idx
		}
		idx = next
	}
}

// findCycle walks basionym edges from start keeping the traversal stack.
// Revisiting a node on the stack closes the cycle, which is returned.
func (r *run) findCycle(start int) []int {
	var stack []int
	onStack := make(map[int]int)
	cur := start
	for {
		if pos, ok := onStack[cur]; ok {
			return stack[pos:]
		}
		onStack[cur] = len(stack)
		stack = append(stack, cur)
		next, ok := r.g.Basionym(cur)
		if !ok {
			return nil
		}
		cur = next
	}
}

// cycleCanonical picks the cycle member with most incoming edges. Ties go
// to the target of the earliest inserted edge.
func (r *run) cycleCanonical(cycle []int) int {
	type cand struct {
		idx, in, first int
	}
	cands := make([]cand, 0, len(cycle))
	for _, c := range cycle {
		rels := r.g.InRels(c, graph.HasBasionym)
		first := -1
		for _, rel := range rels {
			if first < 0 || rel.Idx < first {
				first = rel.Idx
			}
		}
		cands = append(cands, cand{idx: c, in: len(rels), first: first})
	}
	best := slices.MinFunc(cands, func(a, b cand) int {
		if c := cmp.Compare(b.in, a.in); c != 0 {
			return c
		}
		return cmp.Compare(a.first, b.first)
	})
	return best.idx
}

func (r *run) setHomotypic(members []int, canonical int) {
	cn := r.g.Node(canonical)
	if cn == nil || cn.ID == "" {
		return
	}
	for _, m := range members {
		if n := r.g.Node(m); n.Name != nil {
			n.Name.HomotypicNameID = cn.ID
		}
	}
}

func (r *run) flagName(idx int, ii ...issue.Issue) {
	n := r.g.Node(idx)
	if n == nil {
		return
	}
	key := n.VerbatimKey
	if n.Name != nil && n.Name.VerbatimKey > 0 {
		key = n.Name.VerbatimKey
	}
	if key > 0 {
		r.vs.AddIssues(key, ii...)
	}
}

// unionFind clusters node indices into connected components.
type unionFind struct {
	parent map[int]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[int]int)}
}

func (u *unionFind) find(x int) int {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
		return x
	}
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

// components returns members of every component sorted by index, the
// components ordered by their first member.
func (u *unionFind) components() [][]int {
	byRoot := make(map[int][]int)
	for x := range u.parent {
		root := u.find(x)
		byRoot[root] = append(byRoot[root], x)
	}
	res := make([][]int, 0, len(byRoot))
	for _, members := range byRoot {
		slices.Sort(members)
		res = append(res, members)
	}
	slices.SortFunc(res, func(a, b []int) int {
		return cmp.Compare(a[0], b[0])
	})
	return res
}
