package graph

// Snapshot is a serializable copy of the graph arena. Secondary indices are
// rebuilt by Restore.
type Snapshot struct {
	DatasetKey string
	Nodes      []Node
	Rels       []Rel
	Closed     bool
}

// Snapshot copies nodes and relationships of the graph.
func (g *Graph) Snapshot() *Snapshot {
	res := &Snapshot{
		DatasetKey: g.datasetKey,
		Nodes:      make([]Node, len(g.nodes)),
		Rels:       make([]Rel, len(g.rels)),
		Closed:     g.closed,
	}
	for i, n := range g.nodes {
		res.Nodes[i] = *n
	}
	for i, r := range g.rels {
		res.Rels[i] = *r
	}
	return res
}

// Restore builds a graph from a snapshot.
func Restore(s *Snapshot) *Graph {
	g := New(s.DatasetKey)
	g.nodes = make([]*Node, len(s.Nodes))
	g.out = make([][]int, len(s.Nodes))
	g.in = make([][]int, len(s.Nodes))
	for i := range s.Nodes {
		n := s.Nodes[i]
		g.nodes[i] = &n
		if n.ID != "" {
			g.ids[n.Kind][n.ID] = i
		}
		if n.Kind == NameNode && n.Name != nil && n.Name.ScientificName != "" {
			g.names[n.Name.ScientificName] = append(g.names[n.Name.ScientificName], i)
		}
		if n.Kind == UsageNode && n.NameIdx >= 0 && !n.Deleted {
			g.usages[n.NameIdx] = append(g.usages[n.NameIdx], i)
		}
	}
	g.rels = make([]*Rel, len(s.Rels))
	for i := range s.Rels {
		r := s.Rels[i]
		g.rels[i] = &r
		g.out[r.From] = append(g.out[r.From], i)
		g.in[r.To] = append(g.in[r.To], i)
	}
	g.closed = s.Closed
	return g
}
