package pathmap

import "testing"

func TestSet_NormalizesAndDedups(t *testing.T) {
	s := NewSet("docs/guide.md", "./docs/guide.md", `docs\index.md`, "", "  ")
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (paths: %v)", s.Len(), s.Paths())
	}
	if !s.Has("docs/index.md") {
		t.Error("set should contain docs/index.md")
	}
	if !s.Has("docs/./guide.md") {
		t.Error("Has should normalize its argument")
	}
	if s.Has("guide.md") {
		t.Error("set should not contain guide.md")
	}
}

func TestSet_Order(t *testing.T) {
	s := NewSet("b.md", "a.md", "c.md", "a.md")
	paths := s.Paths()
	want := []string{"b.md", "a.md", "c.md"}
	if len(paths) != len(want) {
		t.Fatalf("Paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}

	sorted := s.Sorted()
	if sorted[0] != "a.md" || sorted[2] != "c.md" {
		t.Errorf("Sorted = %v", sorted)
	}
	// Sorting must not reorder the set itself.
	if s.Paths()[0] != "b.md" {
		t.Error("Sorted mutated insertion order")
	}
}

func TestSet_Nil(t *testing.T) {
	var s *Set
	if s.Has("a.md") {
		t.Error("nil set should be empty")
	}
	if s.Len() != 0 {
		t.Errorf("nil Len = %d, want 0", s.Len())
	}
	if s.Paths() != nil {
		t.Error("nil Paths should be nil")
	}
}

func TestSet_Add(t *testing.T) {
	var s Set
	if !s.Add("a.md") {
		t.Error("first Add should report true")
	}
	if s.Add("./a.md") {
		t.Error("duplicate Add should report false")
	}
	if s.Add("") {
		t.Error("empty Add should report false")
	}
}
