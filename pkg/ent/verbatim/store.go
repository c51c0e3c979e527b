package verbatim

import (
	"iter"
	"sync"

	"github.com/gnames/gnnorm/pkg/ent/issue"
)

// Store is an append-only collection of records. It is safe for concurrent
// use, though the normalizer accesses it from one goroutine at a time.
type Store struct {
	mu   sync.RWMutex
	recs []*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add appends a record and assigns its key.
func (s *Store) Add(r *Record) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, r)
	r.Key = int64(len(s.recs))
	return r.Key
}

// Get returns a record by key or nil.
func (s *Store) Get(key int64) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key < 1 || key > int64(len(s.recs)) {
		return nil
	}
	return s.recs[key-1]
}

// AddIssues flags a record. Unknown keys are ignored, synthetic nodes have
// no record.
func (s *Store) AddIssues(key int64, ii ...issue.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key < 1 || key > int64(len(s.recs)) {
		return
	}
	r := s.recs[key-1]
	r.Issues = r.Issues.Add(ii...)
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// All iterates over records in insertion order.
func (s *Store) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		s.mu.RLock()
		recs := s.recs
		s.mu.RUnlock()
		for _, r := range recs {
			if !yield(r) {
				return
			}
		}
	}
}

// Records returns the underlying records, used for checkpoints.
func (s *Store) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recs
}

// Restore replaces the store content with records loaded from a checkpoint.
func (s *Store) Restore(recs []*Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = recs
}

// Histogram counts flagged records per issue.
func (s *Store) Histogram() issue.Histogram {
	res := issue.Histogram{}
	for r := range s.All() {
		res.Count(r.Issues)
	}
	return res
}
