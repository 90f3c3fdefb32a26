// Package adapter provides the stateful collection engine: a single level
// List and a two level Expandable. Both layer enable flags, item states,
// selection, filtering and sorting over an ordered store, publish every
// change to registered listeners and optionally refresh an attached host.
//
// Adapters are not safe for concurrent use. All calls on one instance must
// be serialized by the caller.
package adapter

import (
	"fmt"

	"adaptercore/internal/collection"
	"adaptercore/internal/listener"
	"adaptercore/pkg/domain"
)

const (
	// Rejected is returned by insertions refused under the duplicate rule.
	Rejected = collection.Rejected
	// Hidden is returned (and reported as event index) for entries that are
	// stored but hidden by the active filters.
	Hidden = collection.Hidden
)

// Iterator is a fail-fast iterator over the visible data of an adapter.
type Iterator[T any] = collection.Iterator[T]

// SubList is a live, fail-fast view of a range of visible data.
type SubList[T any] = collection.SubList[T]

type itemScope[T comparable] = collection.Scope[*domain.Item[T], T]

func equalData[T comparable](a, b T) bool { return a == b }

func newItemScope[T comparable](allow bool) *itemScope[T] {
	return collection.NewScope[*domain.Item[T]](equalData[T], allow)
}

// List is a single level adapter over data of type T.
type List[T comparable] struct {
	cfg      Config
	scope    *itemScope[T]
	hub      *listener.Hub[domain.Event[T]]
	host     attachment
	renderer Renderer[T]
}

// NewList returns an empty list configured by opts on top of DefaultConfig.
func NewList[T comparable](opts ...Option) *List[T] {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	l := &List[T]{
		cfg:   cfg,
		scope: newItemScope[T](cfg.AllowDuplicates),
		hub:   listener.New[domain.Event[T]](),
	}
	l.host.notify = &l.cfg.NotifyOnChange
	return l
}

// Config returns a copy of the current configuration.
func (l *List[T]) Config() Config { return l.cfg }

// AllowDuplicates reports the duplicate rule.
func (l *List[T]) AllowDuplicates() bool { return l.cfg.AllowDuplicates }

// SetAllowDuplicates changes the duplicate rule for future insertions.
// Entries already stored are kept.
func (l *List[T]) SetAllowDuplicates(allow bool) {
	l.cfg.AllowDuplicates = allow
	l.scope.Store().SetAllowDuplicates(allow)
}

// AddListener registers lis for the given categories, or for every category
// when none is given. It reports whether lis was added to at least one
// category; registering the same listener twice is a no-op.
func (l *List[T]) AddListener(lis domain.Listener[T], categories ...domain.Category) (bool, error) {
	if len(categories) == 0 {
		categories = domain.AllCategories
	}
	added := false
	for _, c := range categories {
		ok, err := l.hub.Add(c, lis)
		if err != nil {
			return added, err
		}
		added = added || ok
	}
	return added, nil
}

// RemoveListener unregisters lis from the given categories (all when none is
// given) and reports whether it was registered anywhere.
func (l *List[T]) RemoveListener(lis domain.Listener[T], categories ...domain.Category) bool {
	if len(categories) == 0 {
		categories = domain.AllCategories
	}
	removed := false
	for _, c := range categories {
		removed = l.hub.Remove(c, lis) || removed
	}
	return removed
}

func (l *List[T]) emit(ev domain.Event[T]) { l.hub.Dispatch(ev.Kind.Category(), ev) }

func (l *List[T]) guard(op string) error {
	if l.hub.InStructuralDispatch() {
		return fmt.Errorf("%s: %w", op, domain.ErrReentrantMutation)
	}
	return nil
}

func checkData[T any](op string, data T) error {
	if domain.IsNil(data) {
		return fmt.Errorf("%s: %w", op, domain.ErrNilArgument)
	}
	if !domain.IsComparable(data) {
		return fmt.Errorf("%s: %T is not comparable: %w", op, data, domain.ErrInvalidArgument)
	}
	return nil
}

func (l *List[T]) at(op string, index int) (*domain.Item[T], error) {
	if err := domain.CheckIndex(op, index, l.scope.Len()); err != nil {
		return nil, err
	}
	return l.scope.At(index)
}

// Get returns the visible data at index.
func (l *List[T]) Get(index int) (T, error) {
	it, err := l.at("get", index)
	if err != nil {
		var zero T
		return zero, err
	}
	return it.Data, nil
}

// Count returns the number of visible entries.
func (l *List[T]) Count() int { return l.scope.Len() }

// TotalCount returns the number of stored entries including filtered ones.
func (l *List[T]) TotalCount() int { return l.scope.Total() }

// IsEmpty reports whether no entry is visible.
func (l *List[T]) IsEmpty() bool { return l.scope.Len() == 0 }

// IndexOf returns the visible index of the first entry holding data, or -1.
func (l *List[T]) IndexOf(data T) int { return l.scope.IndexOf(data) }

// LastIndexOf returns the visible index of the last entry holding data, or -1.
func (l *List[T]) LastIndexOf(data T) int { return l.scope.LastIndexOf(data) }

// Contains reports whether data is stored, visible or not.
func (l *List[T]) Contains(data T) bool { return l.scope.Contains(data) }

// Values returns the visible data in order.
func (l *List[T]) Values() []T { return l.scope.Values() }

// AllValues returns every stored data in store order, ignoring filters.
func (l *List[T]) AllValues() []T { return values(l.scope.All()) }

// Iterator returns a fail-fast iterator over the visible data.
func (l *List[T]) Iterator() *Iterator[T] { return l.scope.Iterator() }

// SubList returns a live view of the visible data in [start, end).
func (l *List[T]) SubList(start, end int) (*SubList[T], error) { return l.scope.SubList(start, end) }

func (l *List[T]) find(data T) *domain.Item[T] {
	if i := l.scope.IndexOf(data); i >= 0 {
		it, _ := l.scope.At(i)
		return it
	}
	st := l.scope.Store()
	if p := st.IndexFunc(func(it *domain.Item[T]) bool { return it.Data == data }); p >= 0 {
		it, _ := st.At(p)
		return it
	}
	return nil
}
