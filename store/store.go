// Package store keeps the newest known record per node in memory.
//
// Supersession follows the record ordering: a record replaces the stored one
// for its node identifier only when its sequence number is strictly higher.
// Re-inserting the identical record is accepted and a no-op.
package store

import (
	"errors"
	"sort"
	"sync"

	"xdao.co/enr/enr"
	"xdao.co/enr/nodeid"
)

// ErrSuperseded reports a put of a record that does not supersede the one
// already stored for its node.
var ErrSuperseded = errors.New("store: record does not supersede the stored sequence number")

// Store is a latest-wins record table keyed by node identifier. It is safe
// for concurrent use. Stored records must not be mutated by callers; replace
// them through Put instead.
type Store struct {
	mu      sync.RWMutex
	records map[nodeid.ID]*enr.Record
}

// New returns an empty store.
func New() *Store {
	return &Store{records: make(map[nodeid.ID]*enr.Record)}
}

// Put inserts r, or replaces the stored record for the same node when r
// carries a strictly higher sequence number. A put of the identical record
// succeeds without effect; anything older or equal returns ErrSuperseded.
func (s *Store) Put(r *enr.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.records[r.NodeID()]
	if ok {
		if cur.Equal(r) {
			return nil
		}
		if r.Seq() <= cur.Seq() {
			return ErrSuperseded
		}
	}
	s.records[r.NodeID()] = r
	return nil
}

// Get returns the stored record for id.
func (s *Store) Get(id nodeid.ID) (*enr.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

// Remove drops the record for id and reports whether one was stored.
func (s *Store) Remove(id nodeid.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	delete(s.records, id)
	return ok
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns the stored records ordered by their record ordering:
// sequence number, then node identifier.
func (s *Store) Snapshot() []*enr.Record {
	s.mu.RLock()
	out := make([]*enr.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}
