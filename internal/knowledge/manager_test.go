package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domerrors "github.com/bjtuwh/campus-assistant-go/internal/errors"
)

func TestManager_AddUpdateDelete(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kb.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(snap)
	mgr := NewManager(store, path)

	// Add
	err = mgr.Add(Entry{
		ID:       "policy-002",
		Category: CategoryPolicy,
		Title:    "住院报销政策",
		Content:  "住院医疗费用报销比例为85%。",
		Ratio:    "85%",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if store.Snapshot().ByID("policy-002") == nil {
		t.Fatal("added entry not visible in new snapshot")
	}

	// Duplicate add is rejected
	if err := mgr.Add(Entry{ID: "policy-002", Category: CategoryPolicy}); err == nil {
		t.Error("Add() duplicate id should fail")
	}

	// Update
	err = mgr.Update(Entry{
		ID:       "policy-002",
		Category: CategoryPolicy,
		Title:    "住院报销政策（修订）",
		Ratio:    "90%",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := store.Snapshot().ByID("policy-002").Ratio; got != "90%" {
		t.Errorf("updated Ratio = %q, want 90%%", got)
	}

	// Update of unknown id
	if err := mgr.Update(Entry{ID: "ghost"}); !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("Update(ghost) error = %v, want ErrNotFound", err)
	}

	// Delete
	if err := mgr.Delete("policy-002"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store.Snapshot().ByID("policy-002") != nil {
		t.Error("deleted entry still visible")
	}
	if err := mgr.Delete("policy-002"); !errors.Is(err, domerrors.ErrNotFound) {
		t.Errorf("Delete(twice) error = %v, want ErrNotFound", err)
	}

	// Mutations persisted: a fresh load sees the same state.
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if reloaded.ByID("policy-002") != nil {
		t.Error("deleted entry survived persistence")
	}
	if reloaded.Len() != store.Snapshot().Len() {
		t.Errorf("persisted Len() = %d, want %d", reloaded.Len(), store.Snapshot().Len())
	}
}

func TestManager_Validation(t *testing.T) {
	t.Parallel()

	store := NewStore(testSnapshot(t))
	mgr := NewManager(store, "")

	if err := mgr.Add(Entry{Category: CategoryPolicy}); err == nil {
		t.Error("Add() without id should fail")
	}
	if err := mgr.Add(Entry{ID: "x"}); err == nil {
		t.Error("Add() without category should fail")
	}
}

func TestManager_ReadersKeepOldSnapshot(t *testing.T) {
	t.Parallel()

	store := NewStore(testSnapshot(t))
	mgr := NewManager(store, "")

	held := store.Snapshot()
	if err := mgr.Delete("greet-001"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if held.ByID("greet-001") == nil {
		t.Error("in-flight reader lost its entry mid-request")
	}
	if store.Snapshot().ByID("greet-001") != nil {
		t.Error("new snapshot should not contain deleted entry")
	}
}
