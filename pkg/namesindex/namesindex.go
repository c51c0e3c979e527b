// Package namesindex defines the read port to the cross-dataset names
// index and provides in-memory and cached implementations.
//
// Implementations must be safe for concurrent lookups, several datasets
// are normalized at the same time against one index.
package namesindex

import (
	"context"

	"github.com/gnames/gnnorm/pkg/ent/nomen"
)

// Match is the result of a names-index lookup.
type Match struct {
	// ID of the matched index entry, empty for MatchNone.
	ID   string
	Type nomen.MatchType
}

// Matcher finds index entries for names.
type Matcher interface {
	Match(ctx context.Context, n *nomen.Name) (Match, error)
}

// Updater adds names to an index. Updates happen between normalizer runs,
// never during one.
type Updater interface {
	Add(ctx context.Context, names []*nomen.Name) error
}

// PassThrough matches nothing. It is used when matching is switched off.
type PassThrough struct{}

// Match always returns MatchNone.
func (PassThrough) Match(context.Context, *nomen.Name) (Match, error) {
	return Match{Type: nomen.MatchNone}, nil
}
