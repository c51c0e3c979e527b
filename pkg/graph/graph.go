// Package graph is an arena based property graph for one dataset. Nodes
// and relationships live in slices and are addressed by integer indices,
// secondary indices map ids and scientific names to nodes.
//
// A Graph is not safe for concurrent use. It is owned by one normalizer
// run and becomes read-only after Close.
package graph

import (
	"errors"
	"iter"
	"slices"

	"github.com/gnames/gnnorm/pkg/ent/nomen"
)

var (
	// ErrConflictingParent is returned when a node already has a parent.
	ErrConflictingParent = errors.New("node already has a parent")
	// ErrSelfLoop is returned for relationships from a node to itself.
	ErrSelfLoop = errors.New("relationship to itself")
	// ErrIDTaken is returned when assigning an id that is already used.
	ErrIDTaken = errors.New("id is already taken")
)

// Graph holds name and usage nodes of one dataset.
type Graph struct {
	datasetKey string
	nodes      []*Node
	rels       []*Rel
	out        [][]int
	in         [][]int
	ids        [2]map[string]int
	names      map[string][]int
	usages     map[int][]int
	closed     bool
}

// New creates an empty graph for a dataset.
func New(datasetKey string) *Graph {
	return &Graph{
		datasetKey: datasetKey,
		ids:        [2]map[string]int{{}, {}},
		names:      make(map[string][]int),
		usages:     make(map[int][]int),
	}
}

// DatasetKey returns the key of the dataset the graph belongs to.
func (g *Graph) DatasetKey() string {
	return g.datasetKey
}

// AddNode creates a node of the given kind keyed by id, or returns the
// existing one. The second value is true when the node was created. An
// empty id always creates a new anonymous node.
func (g *Graph) AddNode(kind Kind, id string) (*Node, bool, error) {
	if g.closed {
		return nil, false, GraphClosedError(g.datasetKey)
	}
	if id != "" {
		if idx, ok := g.ids[kind][id]; ok {
			return g.nodes[idx], false, nil
		}
	}
	n := &Node{
		Idx:     len(g.nodes),
		Kind:    kind,
		ID:      id,
		NameIdx: -1,
	}
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	if id != "" {
		g.ids[kind][id] = n.Idx
	}
	return n, true, nil
}

// AssignID gives an id to an anonymous node.
func (g *Graph) AssignID(idx int, id string) error {
	if g.closed {
		return GraphClosedError(g.datasetKey)
	}
	n := g.Node(idx)
	if n == nil {
		return NodeNotFoundError(g.datasetKey, idx)
	}
	if g.HasID(id) {
		return ErrIDTaken
	}
	if n.ID != "" {
		delete(g.ids[n.Kind], n.ID)
	}
	n.ID = id
	g.ids[n.Kind][id] = idx
	return nil
}

// HasID reports whether any node of any kind uses the id.
func (g *Graph) HasID(id string) bool {
	_, ok1 := g.ids[NameNode][id]
	_, ok2 := g.ids[UsageNode][id]
	return ok1 || ok2
}

// SetName attaches an interpreted name to a name node and indexes it by
// its scientific name.
func (g *Graph) SetName(idx int, name *nomen.Name) {
	n := g.Node(idx)
	if n == nil || n.Kind != NameNode {
		return
	}
	if n.Name != nil {
		g.names[n.Name.ScientificName] = slices.DeleteFunc(
			g.names[n.Name.ScientificName],
			func(i int) bool { return i == idx },
		)
	}
	n.Name = name
	if name != nil && name.ScientificName != "" {
		g.names[name.ScientificName] = append(g.names[name.ScientificName], idx)
	}
}

// SetUsageName links a usage node to its name node.
func (g *Graph) SetUsageName(usageIdx, nameIdx int) {
	u := g.Node(usageIdx)
	if u == nil || u.Kind != UsageNode || g.Node(nameIdx) == nil {
		return
	}
	if u.NameIdx >= 0 {
		g.usages[u.NameIdx] = slices.DeleteFunc(
			g.usages[u.NameIdx],
			func(i int) bool { return i == usageIdx },
		)
	}
	u.NameIdx = nameIdx
	g.usages[nameIdx] = append(g.usages[nameIdx], usageIdx)
}

// Node returns a node by index or nil.
func (g *Graph) Node(idx int) *Node {
	if idx < 0 || idx >= len(g.nodes) {
		return nil
	}
	return g.nodes[idx]
}

// NameOf returns the interpreted name of a usage or name node.
func (g *Graph) NameOf(idx int) *nomen.Name {
	n := g.Node(idx)
	if n == nil {
		return nil
	}
	if n.Kind == UsageNode {
		n = g.Node(n.NameIdx)
		if n == nil {
			return nil
		}
	}
	return n.Name
}

// ByID finds a live node of a kind by its id.
func (g *Graph) ByID(kind Kind, id string) (*Node, bool) {
	idx, ok := g.ids[kind][id]
	if !ok || g.nodes[idx].Deleted {
		return nil, false
	}
	return g.nodes[idx], true
}

// ByName returns live name nodes with the given scientific name.
func (g *Graph) ByName(sciName string) []*Node {
	var res []*Node
	for _, idx := range g.names[sciName] {
		if n := g.nodes[idx]; !n.Deleted {
			res = append(res, n)
		}
	}
	return res
}

// UsagesOf returns live usages backed by a name node.
func (g *Graph) UsagesOf(nameIdx int) []*Node {
	var res []*Node
	for _, idx := range g.usages[nameIdx] {
		if n := g.nodes[idx]; !n.Deleted {
			res = append(res, n)
		}
	}
	return res
}

// Nodes iterates over live nodes of a kind in insertion order.
func (g *Graph) Nodes(kind Kind) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for i := 0; i < len(g.nodes); i++ {
			n := g.nodes[i]
			if n.Kind != kind || n.Deleted {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// Len returns the number of nodes ever created, including deleted ones.
// Iterating indices up to Len visits every node created so far.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Count returns the number of live nodes of a kind.
func (g *Graph) Count(kind Kind) int {
	var res int
	for range g.Nodes(kind) {
		res++
	}
	return res
}

// CountLabel returns the number of live usages with a label.
func (g *Graph) CountLabel(l Label) int {
	var res int
	for n := range g.Nodes(UsageNode) {
		if n.Label == l {
			res++
		}
	}
	return res
}

// DeleteNode removes a node and all its relationships. Its id stays
// reserved so synthetic ids never reuse it.
func (g *Graph) DeleteNode(idx int) error {
	if g.closed {
		return GraphClosedError(g.datasetKey)
	}
	n := g.Node(idx)
	if n == nil {
		return NodeNotFoundError(g.datasetKey, idx)
	}
	for _, ri := range slices.Concat(g.out[idx], g.in[idx]) {
		g.rels[ri].Deleted = true
	}
	if n.Kind == UsageNode && n.NameIdx >= 0 {
		g.usages[n.NameIdx] = slices.DeleteFunc(
			g.usages[n.NameIdx],
			func(i int) bool { return i == idx },
		)
	}
	n.Deleted = true
	return nil
}

// Close makes the graph read-only.
func (g *Graph) Close() {
	g.closed = true
}

// Closed reports whether the graph is read-only.
func (g *Graph) Closed() bool {
	return g.closed
}
