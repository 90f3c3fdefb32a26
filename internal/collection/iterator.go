package collection

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// Iterator walks a sequence and fails fast when the sequence is structurally
// modified after the iterator was created.
//
//	it := list.Iterator()
//	for it.Next() {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator[V any] struct {
	at       func(int) V
	size     func() int
	mod      func() int
	expected int
	next     int
	index    int
	cur      V
	err      error
}

// NewIterator builds an iterator from accessor functions.
func NewIterator[V any](at func(int) V, size func() int, mod func() int) *Iterator[V] {
	return &Iterator[V]{at: at, size: size, mod: mod, expected: mod(), index: -1}
}

// Next advances to the next value. It returns false at the end of the
// sequence or once a concurrent modification was detected.
func (it *Iterator[V]) Next() bool {
	if it.err != nil {
		return false
	}
	if it.mod() != it.expected {
		it.err = fmt.Errorf("iterator: %w", domain.ErrConcurrentModification)
		return false
	}
	if it.next >= it.size() {
		return false
	}
	it.index = it.next
	it.cur = it.at(it.next)
	it.next++
	return true
}

// Value returns the current value.
func (it *Iterator[V]) Value() V { return it.cur }

// Index returns the index of the current value.
func (it *Iterator[V]) Index() int { return it.index }

// Err returns ErrConcurrentModification when iteration was aborted.
func (it *Iterator[V]) Err() error { return it.err }

// Map converts an iterator over one type into an iterator over another.
func Map[V, W any](at func(int) V, size func() int, mod func() int, fn func(V) W) *Iterator[W] {
	return NewIterator(func(i int) W { return fn(at(i)) }, size, mod)
}

// SubList is a live view of a half-open range of a sequence. Every access
// fails with ErrConcurrentModification once the parent was structurally
// modified.
type SubList[V any] struct {
	at       func(int) V
	size     func() int
	mod      func() int
	expected int
	start    int
	end      int
}

// NewSubList validates [start, end) against the current size.
func NewSubList[V any](at func(int) V, size func() int, mod func() int, start, end int) (*SubList[V], error) {
	n := size()
	if start < 0 || end > n || start > end {
		return nil, domain.IndexError{Op: "sublist", Index: start, Size: n}
	}
	return &SubList[V]{at: at, size: size, mod: mod, expected: mod(), start: start, end: end}, nil
}

func (s *SubList[V]) check() error {
	if s.mod() != s.expected {
		return fmt.Errorf("sublist: %w", domain.ErrConcurrentModification)
	}
	return nil
}

// Len returns the number of values in the range.
func (s *SubList[V]) Len() int { return s.end - s.start }

// At returns the value at index relative to the start of the range.
func (s *SubList[V]) At(index int) (V, error) {
	var zero V
	if err := s.check(); err != nil {
		return zero, err
	}
	if err := domain.CheckIndex("sublist.at", index, s.Len()); err != nil {
		return zero, err
	}
	return s.at(s.start + index), nil
}

// Values copies the range.
func (s *SubList[V]) Values() ([]V, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]V, 0, s.Len())
	for i := s.start; i < s.end; i++ {
		out = append(out, s.at(i))
	}
	return out, nil
}

// Iterator walks the range; it shares the fail-fast behaviour of the view.
func (s *SubList[V]) Iterator() *Iterator[V] {
	it := NewIterator(
		func(i int) V { return s.at(s.start + i) },
		s.Len,
		s.mod,
	)
	it.expected = s.expected
	return it
}
