package knowledge

import (
	"sync"
)

// Snapshot is an immutable view of the knowledge base. All read paths
// operate on one snapshot for the duration of a request, so a reload
// happening mid-request can never mix old and new data.
type Snapshot struct {
	categories []Category
	entries    map[Category][]Entry
	byID       map[string]*Entry
}

// Categories returns the snapshot's categories in iteration order.
func (s *Snapshot) Categories() []Category {
	return s.categories
}

// ByCategory returns the entries of one category in store order.
// Returns nil for an unknown category.
func (s *Snapshot) ByCategory(c Category) []Entry {
	return s.entries[c]
}

// ByID returns the entry with the given id, or nil.
func (s *Snapshot) ByID(id string) *Entry {
	return s.byID[id]
}

// Len returns the total number of entries.
func (s *Snapshot) Len() int {
	return len(s.byID)
}

// Walk calls fn for every entry in category-then-store order.
// Iteration stops early if fn returns false.
func (s *Snapshot) Walk(fn func(c Category, e *Entry) bool) {
	for _, c := range s.categories {
		entries := s.entries[c]
		for i := range entries {
			if !fn(c, &entries[i]) {
				return
			}
		}
	}
}

// Store holds the current knowledge snapshot with thread-safe hot-swap
// capability. Readers take a snapshot reference once and use it for the
// whole request; Swap replaces the snapshot wholesale under a write
// lock. Management writes (add/update/delete) are serialized by the
// same lock.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewStore creates a Store serving the given initial snapshot.
func NewStore(snap *Snapshot) *Store {
	return &Store{current: snap}
}

// Snapshot returns the current snapshot. The returned value is
// immutable; callers may use it after a concurrent Swap without
// observing mixed state, at the cost of possibly serving stale data.
func (st *Store) Snapshot() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Swap atomically replaces the current snapshot.
func (st *Store) Swap(snap *Snapshot) {
	st.mu.Lock()
	st.current = snap
	st.mu.Unlock()
}

// Len returns the entry count of the current snapshot.
func (st *Store) Len() int {
	return st.Snapshot().Len()
}
