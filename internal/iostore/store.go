// Package iostore keeps durable checkpoints of a normalizer run in an
// embedded Badger store. Each checkpoint is written under a new generation
// prefix, and the pointer to the current generation is switched last, so
// the store always holds the last completed pass.
package iostore

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnnorm/pkg/ent/verbatim"
	"github.com/gnames/gnnorm/pkg/graph"
	"github.com/gnames/gnsys"
)

// chunkSize is the number of nodes, relationships or records kept in one
// value.
const chunkSize = 10_000

var currentKey = []byte("current")

// meta describes one generation.
type meta struct {
	Pass       string
	DatasetKey string
	Closed     bool
	Nodes      int
	Rels       int
	Records    int
}

// Store is a checkpoint store of one dataset.
type Store struct {
	dir string
	db  *badger.DB
	gen uint64
	enc gnfmt.GNgob
}

// New creates a store at dir. Existing content is wiped, a run never
// resumes from an old checkpoint.
func New(dir string) (*Store, error) {
	err := gnsys.MakeDir(dir)
	if err != nil {
		return nil, OpenError(dir, err)
	}
	err = gnsys.CleanDir(dir)
	if err != nil {
		return nil, OpenError(dir, err)
	}

	options := badger.DefaultOptions(dir).WithSyncWrites(true)
	options.Logger = nil

	db, err := badger.Open(options)
	if err != nil {
		return nil, OpenError(dir, err)
	}
	slog.Debug("Checkpoint store opened", "dir", dir)
	return &Store{dir: dir, db: db}, nil
}

// Checkpoint writes the graph and the verbatim records after a pass.
func (s *Store) Checkpoint(pass string, g *graph.Graph, vs *verbatim.Store) error {
	if s.db == nil {
		return WriteError(pass, badger.ErrDBClosed)
	}
	snap := g.Snapshot()
	recs := vs.Records()
	gen := s.gen + 1
	m := meta{
		Pass:       pass,
		DatasetKey: snap.DatasetKey,
		Closed:     snap.Closed,
		Nodes:      len(snap.Nodes),
		Rels:       len(snap.Rels),
		Records:    len(recs),
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	set := func(key string, v any) error {
		bs, err := s.enc.Encode(v)
		if err != nil {
			return err
		}
		return wb.Set(genKey(gen, key), bs)
	}

	err := set("meta", m)
	if err == nil {
		err = writeChunks(set, "n", snap.Nodes)
	}
	if err == nil {
		err = writeChunks(set, "r", snap.Rels)
	}
	if err == nil {
		err = writeChunks(set, "v", recs)
	}
	if err == nil {
		err = wb.Flush()
	}
	if err != nil {
		return WriteError(pass, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(currentKey, binary.BigEndian.AppendUint64(nil, gen))
	})
	if err != nil {
		return WriteError(pass, err)
	}

	if s.gen > 0 {
		if err = s.db.DropPrefix(genPrefix(s.gen)); err != nil {
			slog.Warn("Cannot drop old checkpoint", "pass", pass, "error", err)
		}
	}
	s.gen = gen
	slog.Debug("Checkpoint written", "pass", pass, "generation", gen,
		"nodes", m.Nodes, "records", m.Records)
	return nil
}

// Load reads the last complete checkpoint. It returns the name of the pass
// that produced it.
func (s *Store) Load() (*graph.Graph, *verbatim.Store, string, error) {
	if s.db == nil {
		return nil, nil, "", ReadError(badger.ErrDBClosed)
	}
	var gen uint64
	var m meta
	snap := &graph.Snapshot{}
	var recs []*verbatim.Record

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(currentKey)
		if err != nil {
			return err
		}
		bs, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		gen = binary.BigEndian.Uint64(bs)

		get := func(key string, v any) error {
			item, err := txn.Get(genKey(gen, key))
			if err != nil {
				return err
			}
			bs, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			return s.enc.Decode(bs, v)
		}

		if err = get("meta", &m); err != nil {
			return err
		}
		if snap.Nodes, err = readChunks[graph.Node](get, "n", m.Nodes); err != nil {
			return err
		}
		if snap.Rels, err = readChunks[graph.Rel](get, "r", m.Rels); err != nil {
			return err
		}
		recs, err = readChunks[*verbatim.Record](get, "v", m.Records)
		return err
	})
	if err != nil {
		return nil, nil, "", ReadError(err)
	}

	snap.DatasetKey = m.DatasetKey
	snap.Closed = m.Closed
	vs := verbatim.NewStore()
	vs.Restore(recs)
	return graph.Restore(snap), vs, m.Pass, nil
}

// Close closes the Badger database, the data stays on disk.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		slog.Error("Cannot close checkpoint store", "error", err, "dir", s.dir)
		return err
	}
	return nil
}

// Remove closes the store and deletes its directory.
func (s *Store) Remove() error {
	if err := s.Close(); err != nil {
		return err
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return RemoveError(s.dir, err)
	}
	slog.Debug("Checkpoint store removed", "dir", s.dir)
	return nil
}

func genPrefix(gen uint64) []byte {
	return fmt.Appendf(nil, "g/%020d/", gen)
}

func genKey(gen uint64, key string) []byte {
	return append(genPrefix(gen), key...)
}

func writeChunks[T any](set func(string, any) error, prefix string, items []T) error {
	for i := 0; i < len(items); i += chunkSize {
		end := min(i+chunkSize, len(items))
		if err := set(fmt.Sprintf("%s/%d", prefix, i/chunkSize), items[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func readChunks[T any](get func(string, any) error, prefix string, total int) ([]T, error) {
	res := make([]T, 0, total)
	for i := 0; i*chunkSize < total; i++ {
		var chunk []T
		if err := get(fmt.Sprintf("%s/%d", prefix, i), &chunk); err != nil {
			return nil, err
		}
		res = append(res, chunk...)
	}
	return res, nil
}
