package sliceutil

import (
	"reflect"
	"testing"
)

func TestDeduplicate_Strings(t *testing.T) {
	t.Parallel()

	in := []string{"hospital", "procedure", "hospital", "materials", "procedure"}
	got := Deduplicate(in, func(s string) string { return s })
	want := []string{"hospital", "procedure", "materials"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Deduplicate = %v, want %v", got, want)
	}
}

func TestDeduplicate_Structs(t *testing.T) {
	t.Parallel()

	type entry struct{ ID string }
	in := []entry{{"a"}, {"b"}, {"a"}}
	got := Deduplicate(in, func(e entry) string { return e.ID })

	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("Deduplicate = %v", got)
	}
}

func TestDeduplicate_Empty(t *testing.T) {
	t.Parallel()

	var in []string
	if got := Deduplicate(in, func(s string) string { return s }); len(got) != 0 {
		t.Errorf("Deduplicate(empty) = %v, want empty", got)
	}
}
