// Package interpret turns verbatim records into typed names and usages.
// Name strings are parsed by an external parser, everything the parser or
// the record reveals as deviating from expectations becomes an issue.
package interpret

import (
	"github.com/gnames/gnnorm/pkg/ent/issue"
	"github.com/gnames/gnnorm/pkg/ent/nomen"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnparser/ent/parsed"
)

// Parser parses a name string according to a nomenclatural code. It must
// be safe for concurrent use.
type Parser interface {
	Parse(nameString string, code nomen.Code) (parsed.Parsed, error)
}

// Interpreter converts records into names and usages. It keeps no mutable
// state, so it can be used from several goroutines.
type Interpreter struct {
	parser      Parser
	defaultCode nomen.Code
}

// New creates an Interpreter. The default code applies to records that do
// not declare their own.
func New(p Parser, defaultCode nomen.Code) *Interpreter {
	return &Interpreter{parser: p, defaultCode: defaultCode}
}

// Interpreted is the result of interpreting one record.
type Interpreted struct {
	Key   int64
	Name  *nomen.Name
	Usage *Usage
	// Issues detected during interpretation.
	Issues issue.Set
}

// Record interprets a record according to its row type. Name and usage
// rows produce a name, usage rows also produce a usage. Other row types
// are returned untouched.
func (i *Interpreter) Record(rec *verbatim.Record) Interpreted {
	res := Interpreted{Key: rec.Key}
	switch rec.Type {
	case verbatim.Name:
		res.Name, res.Issues = i.Name(rec)
	case verbatim.Usage:
		u, uIss := i.Usage(rec)
		res.Usage = &u
		res.Issues = uIss
		// a usage row without a name of its own refers to a Name row
		if rec.Has(verbatim.ScientificName) || hasAtoms(rec) ||
			!rec.Has(verbatim.NameID) {
			var nIss issue.Set
			res.Name, nIss = i.Name(rec)
			res.Issues = res.Issues.Merge(nIss)
		}
	}
	return res
}
