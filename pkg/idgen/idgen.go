// Package idgen allocates short deterministic identifiers for nodes that
// have no stable source id.
package idgen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExhausted is returned when no free id was found.
var ErrExhausted = errors.New("no free id left")

// maxProbes bounds consecutive rejected candidates in one Next call.
const maxProbes = 1 << 20

// DefaultAlphabet has digits and upper case letters without the visually
// ambiguous 0, 1, I and O.
const DefaultAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Generator encodes a counter in base N over its alphabet. Generated ids
// never start with an excluded prefix and never collide with ids reported
// by the exists callback. It is not safe for concurrent use.
type Generator struct {
	alphabet []rune
	index    map[rune]int
	exclude  []string
	exists   func(string) bool
	counter  int64
}

// Option configures a Generator.
type Option func(*Generator)

// OptAlphabet sets the alphabet. Duplicate characters are dropped, an
// alphabet shorter than two characters is ignored.
func OptAlphabet(s string) Option {
	return func(g *Generator) {
		var runes []rune
		seen := make(map[rune]struct{})
		for _, r := range s {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			runes = append(runes, r)
		}
		if len(runes) < 2 {
			return
		}
		g.alphabet = runes
	}
}

// OptExclusions sets reserved prefixes.
func OptExclusions(prefixes ...string) Option {
	return func(g *Generator) {
		for _, v := range prefixes {
			v = strings.TrimSpace(v)
			if v != "" {
				g.exclude = append(g.exclude, v)
			}
		}
	}
}

// OptExists sets a callback reporting ids that are already taken.
func OptExists(fn func(string) bool) Option {
	return func(g *Generator) {
		g.exists = fn
	}
}

// OptStart sets the first counter value.
func OptStart(n int64) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.counter = n
		}
	}
}

// New creates a generator.
func New(opts ...Option) *Generator {
	res := &Generator{alphabet: []rune(DefaultAlphabet)}
	for _, opt := range opts {
		opt(res)
	}
	res.index = make(map[rune]int, len(res.alphabet))
	for i, r := range res.alphabet {
		res.index[r] = i
	}
	return res
}

// Encode converts a non-negative number to its id form.
func (g *Generator) Encode(n int64) string {
	if n < 0 {
		n = -n
	}
	base := int64(len(g.alphabet))
	if n == 0 {
		return string(g.alphabet[0])
	}
	var buf []rune
	for n > 0 {
		buf = append(buf, g.alphabet[n%base])
		n /= base
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Decode converts an id back to its number.
func (g *Generator) Decode(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty id")
	}
	base := int64(len(g.alphabet))
	var res int64
	for _, r := range s {
		i, ok := g.index[r]
		if !ok {
			return 0, fmt.Errorf("character %q is not in the alphabet", r)
		}
		res = res*base + int64(i)
	}
	return res, nil
}

// Next returns the next free id, probing following codes while the
// candidate is excluded or taken. It gives up with ErrExhausted when
// reserved prefixes cover the whole alphabet or too many candidates in a
// row are rejected.
func (g *Generator) Next() (string, error) {
	if g.blocked() {
		return "", ErrExhausted
	}
	for range maxProbes {
		id := g.Encode(g.counter)
		g.counter++
		if g.isExcluded(id) {
			continue
		}
		if g.exists != nil && g.exists(id) {
			continue
		}
		return id, nil
	}
	return "", ErrExhausted
}

// blocked reports whether every alphabet character is a reserved prefix.
func (g *Generator) blocked() bool {
	for _, r := range g.alphabet {
		if !g.isExcluded(string(r)) {
			return false
		}
	}
	return true
}

func (g *Generator) isExcluded(id string) bool {
	for _, v := range g.exclude {
		if strings.HasPrefix(id, v) {
			return true
		}
	}
	return false
}
