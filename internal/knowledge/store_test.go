package knowledge

import (
	"testing"
)

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return snap
}

func TestStore_SnapshotStableAcrossSwap(t *testing.T) {
	t.Parallel()

	first := testSnapshot(t)
	store := NewStore(first)

	// A reader captures a snapshot reference at request start.
	held := store.Snapshot()

	replacement, err := Parse([]byte(`{"knowledge_base": {"policy": [{"id": "only", "title": "新政策"}]}}`))
	if err != nil {
		t.Fatal(err)
	}
	store.Swap(replacement)

	// The held snapshot still serves the old data in full.
	if held.Len() != 3 {
		t.Errorf("held snapshot Len() = %d, want 3", held.Len())
	}
	if held.ByID("policy-001") == nil {
		t.Error("held snapshot lost an entry after Swap")
	}

	// New readers see the replacement.
	if store.Snapshot().Len() != 1 {
		t.Errorf("current snapshot Len() = %d, want 1", store.Snapshot().Len())
	}
}

func TestSnapshot_WalkOrder(t *testing.T) {
	t.Parallel()

	snap := testSnapshot(t)

	var ids []string
	snap.Walk(func(_ Category, e *Entry) bool {
		ids = append(ids, e.ID)
		return true
	})

	want := []string{"policy-001", "contact-001", "greet-001"}
	if len(ids) != len(want) {
		t.Fatalf("Walk visited %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Walk order[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestSnapshot_WalkEarlyStop(t *testing.T) {
	t.Parallel()

	snap := testSnapshot(t)

	visited := 0
	snap.Walk(func(_ Category, _ *Entry) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("Walk visited %d entries after stop, want 1", visited)
	}
}

func TestEntry_Helpers(t *testing.T) {
	t.Parallel()

	e := Entry{Contact: "0631-1234567"}
	if e.PhoneNumber() != "0631-1234567" {
		t.Errorf("PhoneNumber() = %q", e.PhoneNumber())
	}
	e.Phone = "0631-7654321"
	if e.PhoneNumber() != "0631-7654321" {
		t.Errorf("PhoneNumber() should prefer Phone, got %q", e.PhoneNumber())
	}

	e.Metadata = map[string]any{"priority": "high"}
	if e.Priority() != "high" {
		t.Errorf("Priority() = %q, want high", e.Priority())
	}
	if (&Entry{}).Priority() != "" {
		t.Error("Priority() on empty metadata should be empty")
	}
}
