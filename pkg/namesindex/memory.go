package namesindex

import (
	"context"
	"slices"
	"sync"

	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnuuid"
)

// Memory is an in-process names index. Entries are keyed by the full name
// (name with authorship and rank) and grouped by canonical form.
type Memory struct {
	mu        sync.RWMutex
	exact     map[string]string
	canonical map[string][]string
}

// NewMemory creates an empty index.
func NewMemory() *Memory {
	return &Memory{
		exact:     make(map[string]string),
		canonical: make(map[string][]string),
	}
}

// Match finds an exact entry first, then falls back to the canonical form.
// Several entries sharing the canonical form make an ambiguous match.
func (m *Memory) Match(ctx context.Context, n *nomen.Name) (Match, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, err
	}
	if n == nil || !n.Type.IsParsable() {
		return Match{Type: nomen.MatchNone}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if id, ok := m.exact[exactKey(n)]; ok {
		return Match{ID: id, Type: nomen.MatchExact}, nil
	}
	ids := m.canonical[n.Canonical]
	switch len(ids) {
	case 0:
		return Match{Type: nomen.MatchNone}, nil
	case 1:
		return Match{ID: ids[0], Type: nomen.MatchCanonical}, nil
	default:
		return Match{ID: ids[0], Type: nomen.MatchAmbiguous}, nil
	}
}

// Add inserts names that are not in the index yet. Ids are UUIDv5 of the
// exact key, so the same name always gets the same id.
func (m *Memory) Add(ctx context.Context, names []*nomen.Name) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n == nil || !n.Type.IsParsable() || n.Canonical == "" {
			continue
		}
		key := exactKey(n)
		if _, ok := m.exact[key]; ok {
			continue
		}
		id := gnuuid.New(key).String()
		m.exact[key] = id
		if !slices.Contains(m.canonical[n.Canonical], id) {
			m.canonical[n.Canonical] = append(m.canonical[n.Canonical], id)
		}
	}
	return nil
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exact)
}

func exactKey(n *nomen.Name) string {
	return n.Canonical + "|" + n.Authorship + "|" + n.Rank.String()
}
