package knowledge

import (
	"fmt"
	"os"
	"sync"

	domerrors "github.com/bjtuwh/campus-assistant-go/internal/errors"
)

// Manager performs single-writer mutations on a Store and persists the
// result to the knowledge file. Mutations are copy-on-write: each one
// builds a fresh snapshot and swaps it in, so concurrent readers keep
// their old snapshot untouched.
type Manager struct {
	mu    sync.Mutex
	store *Store
	path  string // empty = in-memory only (tests)
}

// NewManager creates a Manager writing through to the given file path.
func NewManager(store *Store, path string) *Manager {
	return &Manager{store: store, path: path}
}

// Add inserts a new entry into its category.
// Fails if the id already exists or the entry carries no id/category.
func (m *Manager) Add(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		return domerrors.NewValidationError("id", "must not be empty")
	}
	if e.Category == "" {
		return domerrors.NewValidationError("category", "must not be empty")
	}

	snap := m.store.Snapshot()
	if snap.ByID(e.ID) != nil {
		return fmt.Errorf("knowledge: add %q: id already exists: %w", e.ID, domerrors.ErrInvalidInput)
	}

	groups := snap.toGroups()
	groups[string(e.Category)] = append(groups[string(e.Category)], e)
	return m.rebuildAndPersist(groups)
}

// Update replaces the entry with the same id. The category may change;
// the entry moves to the new category's tail in that case.
func (m *Manager) Update(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.Snapshot()
	old := snap.ByID(e.ID)
	if old == nil {
		return fmt.Errorf("knowledge: update %q: %w", e.ID, domerrors.ErrNotFound)
	}
	if e.Category == "" {
		e.Category = old.Category
	}

	groups := snap.toGroups()
	removeFromGroups(groups, e.ID)
	groups[string(e.Category)] = append(groups[string(e.Category)], e)
	return m.rebuildAndPersist(groups)
}

// Delete removes the entry with the given id.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.Snapshot()
	if snap.ByID(id) == nil {
		return fmt.Errorf("knowledge: delete %q: %w", id, domerrors.ErrNotFound)
	}

	groups := snap.toGroups()
	removeFromGroups(groups, id)
	return m.rebuildAndPersist(groups)
}

func (m *Manager) rebuildAndPersist(groups map[string][]Entry) error {
	next, err := buildSnapshot(groups)
	if err != nil {
		return err
	}
	if m.path != "" {
		data, err := Marshal(next)
		if err != nil {
			return fmt.Errorf("knowledge: marshal: %w", err)
		}
		if err := os.WriteFile(m.path, data, 0o644); err != nil {
			return fmt.Errorf("knowledge: persist %q: %w", m.path, err)
		}
	}
	m.store.Swap(next)
	return nil
}

// toGroups copies the snapshot back into the mutable group layout.
func (s *Snapshot) toGroups() map[string][]Entry {
	groups := make(map[string][]Entry, len(s.categories))
	for _, c := range s.categories {
		entries := make([]Entry, len(s.entries[c]))
		copy(entries, s.entries[c])
		groups[string(c)] = entries
	}
	return groups
}

func removeFromGroups(groups map[string][]Entry, id string) {
	for name, entries := range groups {
		for i := range entries {
			if entries[i].ID == id {
				groups[name] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}
