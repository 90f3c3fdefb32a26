// Package collection holds the ordered containers behind the adapters: the
// duplicate aware Store, fail-fast iterators and sub-range views, and Scope,
// which layers filtering and sorting on top of one Store.
package collection

import (
	"slices"

	"adaptercore/pkg/domain"
)

// Store is an ordered container of entries with an optional uniqueness rule.
// Every successful structural change increments the modification counter
// observed by iterators and views.
type Store[E any] struct {
	entries         []E
	equal           func(a, b E) bool
	allowDuplicates bool
	mod             int
}

// NewStore returns an empty store. equal decides whether two entries hold
// the same data; it is consulted only while duplicates are disallowed.
func NewStore[E any](equal func(a, b E) bool, allowDuplicates bool) *Store[E] {
	return &Store[E]{equal: equal, allowDuplicates: allowDuplicates}
}

// Len returns the number of entries.
func (s *Store[E]) Len() int { return len(s.entries) }

// ModCount returns the structural modification counter.
func (s *Store[E]) ModCount() int { return s.mod }

// AllowDuplicates reports the current duplicate rule.
func (s *Store[E]) AllowDuplicates() bool { return s.allowDuplicates }

// SetAllowDuplicates changes the duplicate rule for future insertions.
// Existing duplicates are kept.
func (s *Store[E]) SetAllowDuplicates(allow bool) { s.allowDuplicates = allow }

// At returns the entry at index.
func (s *Store[E]) At(index int) (E, error) {
	if err := domain.CheckIndex("store.at", index, len(s.entries)); err != nil {
		var zero E
		return zero, err
	}
	return s.entries[index], nil
}

// Accepts reports whether e may be inserted under the duplicate rule.
func (s *Store[E]) Accepts(e E) bool {
	return s.allowDuplicates || s.IndexOf(e) < 0
}

// Add appends e and returns its index, or -1 when e was rejected as a duplicate.
func (s *Store[E]) Add(e E) int {
	if !s.Accepts(e) {
		return -1
	}
	s.entries = append(s.entries, e)
	s.mod++
	return len(s.entries) - 1
}

// Insert places e at index, shifting later entries. It returns false when e
// was rejected as a duplicate.
func (s *Store[E]) Insert(index int, e E) (bool, error) {
	if err := domain.CheckPosition("store.insert", index, len(s.entries)); err != nil {
		return false, err
	}
	if !s.Accepts(e) {
		return false, nil
	}
	s.entries = slices.Insert(s.entries, index, e)
	s.mod++
	return true, nil
}

// InsertAll inserts every entry of es starting at index, preserving their
// order. Rejected duplicates are skipped; accepted ones stay inserted. The
// result is true only if every entry was accepted. inserted is called once
// per accepted entry with its final index.
func (s *Store[E]) InsertAll(index int, es []E, inserted func(index int, e E)) (bool, error) {
	if err := domain.CheckPosition("store.insert_all", index, len(s.entries)); err != nil {
		return false, err
	}
	all := true
	pos := index
	for _, e := range es {
		ok, err := s.Insert(pos, e)
		if err != nil {
			return false, err
		}
		if !ok {
			all = false
			continue
		}
		if inserted != nil {
			inserted(pos, e)
		}
		pos++
	}
	return all, nil
}

// Replace swaps the entry at index for e and returns the previous entry.
// ok is false when e duplicates another entry; the store is then unchanged.
func (s *Store[E]) Replace(index int, e E) (old E, ok bool, err error) {
	if err := domain.CheckIndex("store.replace", index, len(s.entries)); err != nil {
		return old, false, err
	}
	if !s.allowDuplicates {
		for i, existing := range s.entries {
			if i != index && s.equal(existing, e) {
				return old, false, nil
			}
		}
	}
	old = s.entries[index]
	s.entries[index] = e
	s.mod++
	return old, true, nil
}

// RemoveAt removes and returns the entry at index.
func (s *Store[E]) RemoveAt(index int) (E, error) {
	if err := domain.CheckIndex("store.remove", index, len(s.entries)); err != nil {
		var zero E
		return zero, err
	}
	e := s.entries[index]
	s.entries = slices.Delete(s.entries, index, index+1)
	s.mod++
	return e, nil
}

// Clear removes all entries and returns them in their previous order.
func (s *Store[E]) Clear() []E {
	out := s.entries
	s.entries = nil
	if len(out) > 0 {
		s.mod++
	}
	return out
}

// IndexOf returns the first index holding data equal to e, or -1.
func (s *Store[E]) IndexOf(e E) int {
	return slices.IndexFunc(s.entries, func(x E) bool { return s.equal(x, e) })
}

// LastIndexOf returns the last index holding data equal to e, or -1.
func (s *Store[E]) LastIndexOf(e E) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.equal(s.entries[i], e) {
			return i
		}
	}
	return -1
}

// IndexFunc returns the first index satisfying fn, or -1.
func (s *Store[E]) IndexFunc(fn func(E) bool) int {
	return slices.IndexFunc(s.entries, fn)
}

// Position returns the index of the identical entry e (pointer identity), or -1.
func (s *Store[E]) Position(e E) int {
	return identityIndex(s.entries, e)
}

// Entries returns a copy of all entries in order.
func (s *Store[E]) Entries() []E { return slices.Clone(s.entries) }

// SortStable orders the entries with cmp, keeping equal entries in their
// previous relative order.
func (s *Store[E]) SortStable(cmp func(a, b E) int) {
	if len(s.entries) < 2 {
		return
	}
	slices.SortStableFunc(s.entries, cmp)
	s.mod++
}

// Reorder replaces the entry order with entries, which must be a permutation
// of the current content.
func (s *Store[E]) Reorder(entries []E) {
	s.entries = slices.Clone(entries)
	s.mod++
}

// Iterator returns a fail-fast iterator over the entries.
func (s *Store[E]) Iterator() *Iterator[E] {
	return NewIterator(
		func(i int) E { return s.entries[i] },
		func() int { return len(s.entries) },
		s.ModCount,
	)
}

// SubList returns a live view of the half-open range [start, end).
func (s *Store[E]) SubList(start, end int) (*SubList[E], error) {
	return NewSubList(
		func(i int) E { return s.entries[i] },
		func() int { return len(s.entries) },
		s.ModCount,
		start, end,
	)
}

func identityIndex[E any](list []E, e E) int {
	target := any(e)
	for i, x := range list {
		if any(x) == target {
			return i
		}
	}
	return -1
}
