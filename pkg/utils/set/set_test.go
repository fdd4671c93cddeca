package set

import (
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	s := Of("b", "a", "b")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.Has("a") || s.Has("c") {
		t.Error("Has reports wrong membership")
	}

	s.Add("c")
	s.Delete("b")
	if got := Sorted(s); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("Sorted() = %v", got)
	}
}

func TestDifference(t *testing.T) {
	before := Of("notes.txt", "backend")
	after := Of("notes.txt", "backend", "package.json", ".env")

	if got := Sorted(after.Difference(before)); !slices.Equal(got, []string{".env", "package.json"}) {
		t.Errorf("Difference() = %v", got)
	}
	if got := after.Difference(nil).Len(); got != 4 {
		t.Errorf("Difference(nil).Len() = %d, want 4", got)
	}
	if got := before.Difference(after).Len(); got != 0 {
		t.Errorf("reverse Difference().Len() = %d, want 0", got)
	}
}
