// Package dedup keeps the first-seen representative of every unique request
// fingerprint. The store is safe for concurrent use; admission order is
// preserved so listings reflect capture order.
package dedup

import (
	"sync"
)

// UniqueEntry is the first-seen representative of a fingerprint.
type UniqueEntry struct {
	Fingerprint string `json:"fingerprint"`
	Seq         uint32 `json:"seq"`    // 1-based admission order
	Label       string `json:"label"`  // path template or GraphQL operation label
	Method      string `json:"method"` // empty in graphql mode
	Host        string `json:"host,omitempty"`
	URL         string `json:"url,omitempty"`      // raw URL of the representative
	EntryID     string `json:"entry_id,omitempty"` // capture entry ID of the representative
	SessionID   string `json:"session_id,omitempty"`
	Status      int    `json:"status,omitempty"` // response status of the representative
	FirstSeenMs int64  `json:"first_seen_ms,omitempty"`
	Duplicates  int    `json:"duplicates"` // later admissions of the same fingerprint
}

// Store is a concurrent first-wins set of unique entries.
type Store struct {
	mu      sync.Mutex
	byFP    map[string]*UniqueEntry
	order   []*UniqueEntry
	nextSeq uint32
}

// NewStore creates an empty store. Sequence numbers start at 1.
func NewStore() *Store {
	return &Store{
		byFP:    make(map[string]*UniqueEntry),
		nextSeq: 1,
	}
}

// TryAdmit admits an entry if its fingerprint has not been seen. The first
// caller for a fingerprint wins and its entry becomes the representative;
// later calls increment the duplicate count and return the existing entry
// with isNew == false. The entry's Fingerprint and Seq fields are set by the
// store.
func (s *Store) TryAdmit(fingerprint string, entry UniqueEntry) (isNew bool, admitted *UniqueEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byFP[fingerprint]; ok {
		existing.Duplicates++
		return false, existing
	}

	entry.Fingerprint = fingerprint
	entry.Seq = s.nextSeq
	s.nextSeq++

	e := &entry
	s.byFP[fingerprint] = e
	s.order = append(s.order, e)
	return true, e
}

// Get returns the entry for a fingerprint, or nil if not present.
func (s *Store) Get(fingerprint string) *UniqueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byFP[fingerprint]
	if !ok {
		return nil
	}
	copied := *e
	return &copied
}

// Clear removes a single fingerprint so the next matching request is
// admitted fresh. Sequence numbers are not reused. Returns false if the
// fingerprint was not present.
func (s *Store) Clear(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byFP[fingerprint]
	if !ok {
		return false
	}
	delete(s.byFP, fingerprint)

	for i, other := range s.order {
		if other == e {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Reset empties the store and restarts sequence numbering at 1.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byFP = make(map[string]*UniqueEntry)
	s.order = nil
	s.nextSeq = 1
}

// List returns a snapshot of all unique entries in admission order. The
// returned slice and entries are copies; mutating them does not affect the
// store.
func (s *Store) List() []UniqueEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]UniqueEntry, len(s.order))
	for i, e := range s.order {
		out[i] = *e
	}
	return out
}

// Len returns the number of unique entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byFP)
}
