package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange reports an index outside [0, count).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNilArgument reports a missing required argument (nil data, nil listener, ...).
	ErrNilArgument = errors.New("nil argument")
	// ErrNotFound reports a value lookup that did not match any stored entry.
	ErrNotFound = errors.New("not found")
	// ErrUnsupported reports a missing capability (no predicate and no Matchable
	// data, no comparator and no natural ordering).
	ErrUnsupported = errors.New("unsupported operation")
	// ErrIllegalState reports an operation that is not allowed in the current
	// configuration, e.g. selecting while the choice mode is ChoiceNone.
	ErrIllegalState = errors.New("illegal state")
	// ErrInvalidArgument reports an argument that is present but out of its domain
	// (a state outside [0, numberOfStates), a non-positive number of states).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConcurrentModification is returned by iterators and sub-range views
	// once the underlying store was structurally modified.
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrReentrantMutation is returned when a mutation is attempted from within
	// the dispatch of a structural event.
	ErrReentrantMutation = errors.New("mutation during structural event dispatch")
	// ErrInvalidSnapshot reports an absent or corrupt serialized state.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// IndexError is returned by index-based operations when the index violates
// the bounds of the addressed scope.
type IndexError struct {
	Op    string
	Index int
	Size  int
}

func (e IndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Index, e.Size)
}

// Unwrap allows errors.Is(err, ErrIndexOutOfRange).
func (e IndexError) Unwrap() error { return ErrIndexOutOfRange }

// NotFoundError is returned when an operation references a value (not an
// index) that is not present in the addressed scope.
type NotFoundError struct {
	Op    string
	Value any
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s: %v not found", e.Op, e.Value)
}

// Unwrap allows errors.Is(err, ErrNotFound).
func (e NotFoundError) Unwrap() error { return ErrNotFound }

// CheckIndex validates index against [0, size).
func CheckIndex(op string, index, size int) error {
	if index < 0 || index >= size {
		return IndexError{Op: op, Index: index, Size: size}
	}
	return nil
}

// CheckPosition validates an insertion position against [0, size].
func CheckPosition(op string, index, size int) error {
	if index < 0 || index > size {
		return IndexError{Op: op, Index: index, Size: size + 1}
	}
	return nil
}
