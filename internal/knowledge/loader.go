package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	domerrors "github.com/bjtuwh/campus-assistant-go/internal/errors"
)

// document is the on-disk layout: a top-level knowledge_base object
// mapping category name to a list of entries.
type document struct {
	KnowledgeBase map[string][]Entry `json:"knowledge_base"`
}

// Load reads and validates the knowledge file at path.
// A missing, malformed or empty file is a startup failure: serving an
// empty knowledge base would silently degrade every answer to FAQ
// fallbacks, so the loader fails loudly instead.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read %q: %w", path, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge: load %q: %w", path, err)
	}
	return snap, nil
}

// Parse builds a Snapshot from raw JSON bytes.
func Parse(data []byte) (*Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if doc.KnowledgeBase == nil {
		return nil, fmt.Errorf("missing knowledge_base field: %w", domerrors.ErrInvalidInput)
	}
	return buildSnapshot(doc.KnowledgeBase)
}

// buildSnapshot assembles the immutable snapshot, fixing category
// iteration order and enforcing id uniqueness.
func buildSnapshot(groups map[string][]Entry) (*Snapshot, error) {
	snap := &Snapshot{
		entries: make(map[Category][]Entry, len(groups)),
		byID:    make(map[string]*Entry),
	}

	// Canonical categories first, then any extra groups sorted by name
	// so that iteration order never depends on map ordering.
	seen := make(map[Category]bool, len(groups))
	for _, c := range CanonicalCategories {
		if _, ok := groups[string(c)]; ok {
			snap.categories = append(snap.categories, c)
			seen[c] = true
		}
	}
	var extra []string
	for name := range groups {
		if !seen[Category(name)] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		snap.categories = append(snap.categories, Category(name))
	}

	total := 0
	for _, c := range snap.categories {
		entries := groups[string(c)]
		for i := range entries {
			e := &entries[i]
			if e.ID == "" {
				return nil, fmt.Errorf("entry %d in category %q has no id: %w", i, c, domerrors.ErrInvalidInput)
			}
			if _, dup := snap.byID[e.ID]; dup {
				return nil, fmt.Errorf("duplicate entry id %q: %w", e.ID, domerrors.ErrInvalidInput)
			}
			e.Category = c
			// Index as we validate so a duplicate later in the same
			// category is caught too.
			snap.byID[e.ID] = e
		}
		snap.entries[c] = entries
		total += len(entries)
	}

	if total == 0 {
		return nil, domerrors.ErrKnowledgeEmpty
	}
	return snap, nil
}

// Marshal serializes a snapshot back to the on-disk document layout.
func Marshal(snap *Snapshot) ([]byte, error) {
	doc := document{KnowledgeBase: make(map[string][]Entry, len(snap.categories))}
	for _, c := range snap.categories {
		doc.KnowledgeBase[string(c)] = snap.entries[c]
	}
	return json.MarshalIndent(doc, "", "  ")
}
