package graph

import (
	"github.com/gnames/gnnorm/pkg/ent/nomen"
)

// Kind separates name nodes from usage nodes.
type Kind uint8

const (
	NameNode Kind = iota
	UsageNode
)

func (k Kind) String() string {
	if k == NameNode {
		return "name"
	}
	return "usage"
}

// Label classifies usage nodes.
type Label uint8

const (
	NoLabel Label = iota
	Taxon
	Synonym
)

func (l Label) String() string {
	switch l {
	case Taxon:
		return "Taxon"
	case Synonym:
		return "Synonym"
	}
	return ""
}

// RelType is the type of a directed relationship.
type RelType uint8

const (
	// ParentOf goes from a parent taxon to its child.
	ParentOf RelType = iota
	// SynonymOf goes from a synonym usage to an accepted taxon.
	SynonymOf
	// HasBasionym goes from a name to its basionym.
	HasBasionym
)

func (t RelType) String() string {
	switch t {
	case ParentOf:
		return "PARENT_OF"
	case SynonymOf:
		return "SYNONYM_OF"
	case HasBasionym:
		return "HAS_BASIONYM"
	}
	return "UNKNOWN"
}

// Node is an entry of the arena. Nodes are addressed by Idx, which never
// changes.
type Node struct {
	Idx  int
	Kind Kind
	// ID is the dataset scoped identifier, empty until a synthetic id is
	// assigned to an anonymous node.
	ID string

	// Name holds the interpreted name of a name node.
	Name *nomen.Name
	// NameIdx is the name node of a usage, -1 when not set.
	NameIdx int

	Label  Label
	Status nomen.Status

	// VerbatimKey is the source record, 0 for synthesized nodes.
	VerbatimKey int64
	// Synthetic nodes were created by the normalizer, not read from source.
	Synthetic bool
	// DuplicateOf keeps the declared id of a node whose id was already
	// taken by an earlier record.
	DuplicateOf string
	Deleted     bool

	// Data lists verbatim keys of extension rows attached to a usage.
	Data []int64
}

// IsTaxon reports whether the node is a live accepted usage.
func (n *Node) IsTaxon() bool {
	return n.Kind == UsageNode && n.Label == Taxon && !n.Deleted
}

// IsSynonym reports whether the node is a live synonym usage.
func (n *Node) IsSynonym() bool {
	return n.Kind == UsageNode && n.Label == Synonym && !n.Deleted
}

// Rel is a typed directed edge between two nodes.
type Rel struct {
	// Idx doubles as insertion order.
	Idx     int
	Type    RelType
	From    int
	To      int
	Deleted bool
}
