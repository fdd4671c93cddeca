package set

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Set is an unordered collection of distinct values. The zero value is not usable; use New or Of.
type Set[T comparable] struct {
	items map[T]struct{}
}

func New[T comparable]() *Set[T] {
	return &Set[T]{items: map[T]struct{}{}}
}

func Of[T comparable](values ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(values))}
	for _, v := range values {
		s.items[v] = struct{}{}
	}
	return s
}

func (s *Set[T]) Add(v T) {
	s.items[v] = struct{}{}
}

func (s *Set[T]) Delete(v T) {
	delete(s.items, v)
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// All iterates the members in unspecified order.
func (s *Set[T]) All() iter.Seq[T] {
	return maps.Keys(s.items)
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.items[v]
	return ok
}

// Values returns the members in unspecified order.
func (s *Set[T]) Values() []T {
	return slices.Collect(s.All())
}

// Difference returns the values of s missing from other. A nil other is treated as empty.
func (s *Set[T]) Difference(other *Set[T]) *Set[T] {
	diff := New[T]()
	for v := range s.items {
		if other == nil || !other.Has(v) {
			diff.Add(v)
		}
	}
	return diff
}

func Sorted[T cmp.Ordered](s *Set[T]) []T {
	return slices.Sorted(s.All())
}
