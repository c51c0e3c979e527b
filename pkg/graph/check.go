package graph

import (
	"fmt"
)

// Check verifies structural invariants of a normalized graph:
//   - every live usage has a name;
//   - a node has at most one parent and parent links form a forest;
//   - SynonymOf always targets a taxon and starts at a synonym;
//   - a name has at most one basionym and basionym links are acyclic.
//
// It returns the first violation found.
func (g *Graph) Check() error {
	for n := range g.Nodes(UsageNode) {
		if g.Node(n.NameIdx) == nil {
			return fmt.Errorf("usage %q has no name", n.ID)
		}
		if len(g.InRels(n.Idx, ParentOf)) > 1 {
			return fmt.Errorf("usage %q has more than one parent", n.ID)
		}
	}

	if err := g.checkForest(); err != nil {
		return err
	}

	for r := range g.Rels(SynonymOf) {
		from, to := g.nodes[r.From], g.nodes[r.To]
		if !from.IsSynonym() {
			return fmt.Errorf("synonym relation starts at non-synonym %q", from.ID)
		}
		if !to.IsTaxon() {
			return fmt.Errorf("synonym %q points to non-taxon %q", from.ID, to.ID)
		}
	}

	for n := range g.Nodes(NameNode) {
		if len(g.OutRels(n.Idx, HasBasionym)) > 1 {
			return fmt.Errorf("name %q has more than one basionym", n.ID)
		}
	}
	return g.checkBasionymCycles()
}

// checkForest walks from every node up to its root, marking nodes already
// proven to reach a root.
func (g *Graph) checkForest() error {
	done := make([]bool, len(g.nodes))
	for n := range g.Nodes(UsageNode) {
		path := make(map[int]struct{})
		cur := n.Idx
		for !done[cur] {
			if _, ok := path[cur]; ok {
				return fmt.Errorf("parent cycle through %q", g.nodes[cur].ID)
			}
			path[cur] = struct{}{}
			p, ok := g.Parent(cur)
			if !ok {
				break
			}
			cur = p
		}
		for idx := range path {
			done[idx] = true
		}
	}
	return nil
}

func (g *Graph) checkBasionymCycles() error {
	state := make([]uint8, len(g.nodes))
	for n := range g.Nodes(NameNode) {
		var path []int
		cur := n.Idx
		for state[cur] == 0 {
			state[cur] = 1
			path = append(path, cur)
			next, ok := g.Basionym(cur)
			if !ok {
				break
			}
			cur = next
		}
		if state[cur] == 1 && len(path) > 0 {
			if _, ok := g.Basionym(cur); ok {
				return fmt.Errorf("basionym cycle through %q", g.nodes[cur].ID)
			}
		}
		for _, idx := range path {
			state[idx] = 2
		}
	}
	return nil
}
