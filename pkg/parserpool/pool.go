// Package parserpool provides a pool of gnparser instances for concurrent name parsing.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// ErrClosed is returned by Parse after the pool is closed.
var ErrClosed = errors.New("parser pool is closed")

// Pool provides a pool of gnparser instances for concurrent parsing.
// It maintains separate pools for botanical and zoological nomenclatural codes.
type Pool interface {
	// Parse parses a scientific name string using the rules of the given
	// nomenclatural code. Botanical and cultivated plant names go to the
	// botanical parsers, everything else to the zoological ones.
	// This method is safe for concurrent use.
	Parse(nameString string, code nomen.Code) (parsed.Parsed, error)

	// Close shuts down the parser pools and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

// PoolImpl implements the Pool interface using gnparser.NewPool.
type PoolImpl struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
	poolSize     int
	closed       atomic.Bool
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
// Total parsers created = 2 * poolSize (one pool per nomenclatural code).
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	botanicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
		gnparser.OptWithDetails(true),
	)
	zoologicalCfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Zoological),
		gnparser.OptWithDetails(true),
	)

	return &PoolImpl{
		botanicalCh:  gnparser.NewPool(botanicalCfg, poolSize),
		zoologicalCh: gnparser.NewPool(zoologicalCfg, poolSize),
		poolSize:     poolSize,
	}
}

// Parse retrieves a parser from the pool selected by the code, parses the
// name and returns the parser to the pool.
func (p *PoolImpl) Parse(nameString string, code nomen.Code) (parsed.Parsed, error) {
	if p.closed.Load() {
		return parsed.Parsed{}, ErrClosed
	}

	ch := p.zoologicalCh
	switch code {
	case nomen.Botanical, nomen.Cultivars:
		ch = p.botanicalCh
	}

	// blocks if all parsers are busy
	parser := <-ch
	result := parser.ParseName(nameString)
	ch <- parser

	return result, nil
}

// Size returns the number of parsers per nomenclatural code.
func (p *PoolImpl) Size() int {
	return p.poolSize
}

// Close marks the pool closed. Parsers are released with the pool.
func (p *PoolImpl) Close() {
	p.closed.Store(true)
}
