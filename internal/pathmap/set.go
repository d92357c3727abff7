package pathmap

import "sort"

// Set is an insertion-ordered set of normalized paths.
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet returns a Set holding the normalized, non-empty paths.
func NewSet(paths ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts p after normalizing it. Empty paths are ignored.
// It reports whether p was newly added.
func (s *Set) Add(p string) bool {
	p = Normalize(p)
	if p == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[p]; ok {
		return false
	}
	s.index[p] = struct{}{}
	s.order = append(s.order, p)
	return true
}

// Has reports whether the normalized form of p is in the set.
// A nil Set is empty.
func (s *Set) Has(p string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[Normalize(p)]
	return ok
}

// Len returns the number of paths.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Paths returns the paths in insertion order.
func (s *Set) Paths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Sorted returns the paths in lexicographic order.
func (s *Set) Sorted() []string {
	out := s.Paths()
	sort.Strings(out)
	return out
}
