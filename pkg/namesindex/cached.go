package namesindex

import (
	"context"

	"github.com/gnames/gnnorm/pkg/ent/nomen"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Cached wraps a Matcher with an LRU cache shared by all normalizer runs.
// Concurrent lookups of the same name are collapsed into one call.
type Cached struct {
	matcher Matcher
	cache   *lru.Cache[string, Match]
	group   singleflight.Group
}

// NewCached creates a caching matcher holding up to size entries.
func NewCached(m Matcher, size int) (*Cached, error) {
	cache, err := lru.New[string, Match](size)
	if err != nil {
		return nil, err
	}
	return &Cached{matcher: m, cache: cache}, nil
}

// Match returns a cached match or asks the wrapped matcher.
func (c *Cached) Match(ctx context.Context, n *nomen.Name) (Match, error) {
	if n == nil {
		return Match{Type: nomen.MatchNone}, nil
	}
	key := exactKey(n)
	if res, ok := c.cache.Get(key); ok {
		return res, nil
	}
	// The shared lookup outlives any single caller, so one cancelled
	// caller does not fail the others waiting on the same key.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := c.matcher.Match(shared, n)
		if err != nil {
			return Match{}, err
		}
		c.cache.Add(key, res)
		return res, nil
	})
	select {
	case <-ctx.Done():
		return Match{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Match{}, r.Err
		}
		return r.Val.(Match), nil
	}
}

// Purge drops cached matches. It is called after the index was updated.
func (c *Cached) Purge() {
	c.cache.Purge()
}

// Add updates the wrapped index if it supports updates and purges the
// cache.
func (c *Cached) Add(ctx context.Context, names []*nomen.Name) error {
	u, ok := c.matcher.(Updater)
	if !ok {
		return nil
	}
	if err := u.Add(ctx, names); err != nil {
		return err
	}
	c.Purge()
	return nil
}
