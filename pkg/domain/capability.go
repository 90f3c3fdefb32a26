package domain

import (
	"cmp"
	"fmt"
	"reflect"
	"time"
)

// Matchable is implemented by data types that can decide on their own whether
// they match a filter query.
type Matchable interface {
	Match(query string, flags int) bool
}

// Orderable is implemented by data types with a natural ordering.
type Orderable[T any] interface {
	Compare(other T) int
}

// MatchFunc is an explicit filter predicate. It takes priority over Matchable.
type MatchFunc[T any] func(data T, query string, flags int) bool

// Comparator orders two values, returning a negative number, zero or a
// positive number.
type Comparator[T any] func(a, b T) int

// Matches evaluates q against data, preferring fn over the Matchable capability.
func Matches[T any](data T, q FilterQuery, fn MatchFunc[T]) (bool, error) {
	if fn != nil {
		return fn(data, q.Query, q.Flags), nil
	}
	if m, ok := any(data).(Matchable); ok {
		return m.Match(q.Query, q.Flags), nil
	}
	return false, fmt.Errorf("filter %s: %T does not implement Matchable: %w", q, data, ErrUnsupported)
}

// SupportsNaturalOrder reports whether NaturalCompare can order values of v's type.
func SupportsNaturalOrder[T any](v T) bool {
	if _, ok := any(v).(Orderable[T]); ok {
		return true
	}
	if _, ok := any(v).(time.Time); ok {
		return true
	}
	return orderedKind(reflect.ValueOf(any(v)).Kind())
}

// NaturalCompare orders a and b using Orderable, time.Time, or the built-in
// ordering of types whose underlying type is a string or a number.
func NaturalCompare[T any](a, b T) (int, error) {
	if o, ok := any(a).(Orderable[T]); ok {
		return o.Compare(b), nil
	}
	if x, ok := any(a).(time.Time); ok {
		y, ok := any(b).(time.Time)
		if !ok {
			return 0, fmt.Errorf("cannot compare %T with %T: %w", a, b, ErrUnsupported)
		}
		return x.Compare(y), nil
	}
	va, vb := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
	if !va.IsValid() || !vb.IsValid() || !orderedKind(va.Kind()) {
		return 0, fmt.Errorf("%T has no natural ordering: %w", a, ErrUnsupported)
	}
	if va.Type() != vb.Type() {
		return 0, fmt.Errorf("cannot compare %T with %T: %w", a, b, ErrUnsupported)
	}
	switch va.Kind() {
	case reflect.String:
		return cmp.Compare(va.String(), vb.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(va.Uint(), vb.Uint()), nil
	default:
		return cmp.Compare(va.Float(), vb.Float()), nil
	}
}

func orderedKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsNil reports whether v is nil or a typed nil (pointer, map, slice, func,
// chan or interface).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// IsComparable reports whether == on v is safe. A value typed as an
// interface can hold a slice, map or func, directly or inside a struct or
// array, and comparing two such values panics.
func IsComparable(v any) bool {
	if v == nil {
		return true
	}
	return comparableValue(reflect.ValueOf(v))
}

func comparableValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Interface:
		return rv.IsNil() || comparableValue(rv.Elem())
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !comparableValue(rv.Field(i)) {
				return false
			}
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !comparableValue(rv.Index(i)) {
				return false
			}
		}
	}
	return true
}
