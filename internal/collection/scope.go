package collection

import (
	"fmt"
	"slices"

	"adaptercore/pkg/domain"
)

const (
	// Rejected is returned by insertions refused under the duplicate rule.
	Rejected = -1
	// Hidden is returned for entries that were stored but are hidden by the
	// active filters of the scope.
	Hidden = -2
)

// Removal records an entry removed from a scope together with the visible
// index it had (Hidden when it was filtered out).
type Removal[E any] struct {
	Entry E
	Index int
}

type activeFilter[D any] struct {
	query domain.FilterQuery
	match domain.MatchFunc[D]
}

// Scope is one addressable list of the engine: the whole item list of a List,
// the group list of an Expandable, or the children of one group. It owns the
// unfiltered Store, the set of active filters with the derived visible view,
// and the remembered sort order. Index based operations address the visible
// view; the view is always a subsequence of the store.
type Scope[E domain.Entry[D], D any] struct {
	store   *Store[E]
	equal   func(a, b D) bool
	filters []activeFilter[D]
	view    []E
	viewMod int
	gate    func(E) bool

	sorted bool
	order  domain.Order
	cmp    domain.Comparator[D]
}

// NewScope returns an empty scope. equal decides data equality for the
// duplicate rule and value lookups.
func NewScope[E domain.Entry[D], D any](equal func(a, b D) bool, allowDuplicates bool) *Scope[E, D] {
	return &Scope[E, D]{
		store: NewStore(func(a, b E) bool { return equal(a.Value(), b.Value()) }, allowDuplicates),
		equal: equal,
	}
}

// Store exposes the unfiltered store.
func (s *Scope[E, D]) Store() *Store[E] { return s.store }

// Mod changes on every structural change of the store and every change of
// the visible view.
func (s *Scope[E, D]) Mod() int { return s.store.ModCount() + s.viewMod }

// Load replaces the whole content of s with other: store, filters, view,
// gate and sort memory. Iterators and sub-lists created from s before the
// call fail with ErrConcurrentModification. other must not be used
// afterwards.
func (s *Scope[E, D]) Load(other *Scope[E, D]) {
	next := s.Mod() + 1
	*s = *other
	s.viewMod = next - s.store.ModCount()
}

// Invalidate marks every outstanding iterator and sub-list of s as stale.
func (s *Scope[E, D]) Invalidate() { s.viewMod++ }

func (s *Scope[E, D]) visible() []E {
	if s.IsFiltered() {
		return s.view
	}
	return s.store.entries
}

// Len returns the number of visible entries.
func (s *Scope[E, D]) Len() int { return len(s.visible()) }

// Total returns the number of stored entries, visible or not.
func (s *Scope[E, D]) Total() int { return s.store.Len() }

// At returns the visible entry at index.
func (s *Scope[E, D]) At(index int) (E, error) {
	vis := s.visible()
	if err := domain.CheckIndex("at", index, len(vis)); err != nil {
		var zero E
		return zero, err
	}
	return vis[index], nil
}

// Visible returns a copy of the visible entries.
func (s *Scope[E, D]) Visible() []E { return slices.Clone(s.visible()) }

// Values returns the data of the visible entries.
func (s *Scope[E, D]) Values() []D {
	vis := s.visible()
	out := make([]D, len(vis))
	for i, e := range vis {
		out[i] = e.Value()
	}
	return out
}

// All returns every stored entry in store order.
func (s *Scope[E, D]) All() []E { return s.store.Entries() }

// IndexOf returns the visible index of the first entry holding d, or -1.
func (s *Scope[E, D]) IndexOf(d D) int {
	return slices.IndexFunc(s.visible(), func(e E) bool { return s.equal(e.Value(), d) })
}

// LastIndexOf returns the visible index of the last entry holding d, or -1.
func (s *Scope[E, D]) LastIndexOf(d D) int {
	vis := s.visible()
	for i := len(vis) - 1; i >= 0; i-- {
		if s.equal(vis[i].Value(), d) {
			return i
		}
	}
	return -1
}

// Contains reports whether any stored entry, visible or not, holds d.
func (s *Scope[E, D]) Contains(d D) bool {
	return s.store.IndexFunc(func(e E) bool { return s.equal(e.Value(), d) }) >= 0
}

// VisibleIndex returns the visible index of the identical entry e, or Hidden.
func (s *Scope[E, D]) VisibleIndex(e E) int {
	if i := identityIndex(s.visible(), e); i >= 0 {
		return i
	}
	return Hidden
}

// Insert stores e before the visible entry at index (or at the end when index
// equals Len). It returns the visible index of e, Rejected for a duplicate,
// or Hidden when e does not pass the active filters.
func (s *Scope[E, D]) Insert(index int, e E) (int, error) {
	vis := s.visible()
	if err := domain.CheckPosition("insert", index, len(vis)); err != nil {
		return Rejected, err
	}
	filtered := s.IsFiltered()
	match := true
	if filtered {
		m, err := s.admits(e)
		if err != nil {
			return Rejected, err
		}
		match = m
	}
	storePos := s.store.Len()
	if index < len(vis) {
		storePos = s.store.Position(vis[index])
	}
	ok, err := s.store.Insert(storePos, e)
	if err != nil || !ok {
		return Rejected, err
	}
	if !filtered {
		return storePos, nil
	}
	if !match {
		return Hidden, nil
	}
	s.view = slices.Insert(s.view, index, e)
	return index, nil
}

// Add appends e; see Insert.
func (s *Scope[E, D]) Add(e E) (int, error) { return s.Insert(s.Len(), e) }

// Replace swaps the visible entry at index for e. It returns the previous
// entry and the visible index of e (Hidden when e fails the active filters,
// Rejected when e duplicates another entry and nothing changed).
func (s *Scope[E, D]) Replace(index int, e E) (E, int, error) {
	var zero E
	vis := s.visible()
	if err := domain.CheckIndex("replace", index, len(vis)); err != nil {
		return zero, Rejected, err
	}
	filtered := s.IsFiltered()
	match := true
	if filtered {
		m, err := s.admits(e)
		if err != nil {
			return zero, Rejected, err
		}
		match = m
	}
	storePos := s.store.Position(vis[index])
	old, ok, err := s.store.Replace(storePos, e)
	if err != nil || !ok {
		return zero, Rejected, err
	}
	if !filtered {
		return old, index, nil
	}
	if match {
		s.view[index] = e
		return old, index, nil
	}
	s.view = slices.Delete(s.view, index, index+1)
	return old, Hidden, nil
}

// RemoveAt removes the visible entry at index.
func (s *Scope[E, D]) RemoveAt(index int) (E, error) {
	vis := s.visible()
	if err := domain.CheckIndex("remove", index, len(vis)); err != nil {
		var zero E
		return zero, err
	}
	e := vis[index]
	if _, err := s.store.RemoveAt(s.store.Position(e)); err != nil {
		return e, err
	}
	if s.IsFiltered() {
		s.view = slices.Delete(s.view, index, index+1)
	}
	return e, nil
}

// RemoveEntry removes the identical entry e whether visible or not and
// returns the visible index it had (Hidden when filtered out).
func (s *Scope[E, D]) RemoveEntry(e E) (int, bool) {
	pos := s.store.Position(e)
	if pos < 0 {
		return Rejected, false
	}
	index := s.VisibleIndex(e)
	_, _ = s.store.RemoveAt(pos)
	if s.IsFiltered() && index >= 0 {
		s.view = slices.Delete(s.view, index, index+1)
	}
	return index, true
}

// Clear removes every entry, last to first, and returns the removals in that
// order.
func (s *Scope[E, D]) Clear() []Removal[E] {
	all := s.store.entries
	out := make([]Removal[E], 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, Removal[E]{Entry: all[i], Index: s.VisibleIndex(all[i])})
	}
	s.store.Clear()
	if s.IsFiltered() {
		s.view = s.view[:0]
		s.viewMod++
	}
	return out
}

// IsFiltered reports whether a view is being derived, i.e. at least one
// filter or a gate is active.
func (s *Scope[E, D]) IsFiltered() bool { return len(s.filters) > 0 || s.gate != nil }

// HasFilters reports whether at least one filter query is active.
func (s *Scope[E, D]) HasFilters() bool { return len(s.filters) > 0 }

// SetGate installs an entry level predicate ANDed with the filters, or
// removes it when gate is nil. The view is recomputed.
func (s *Scope[E, D]) SetGate(gate func(E) bool) error {
	prev := s.gate
	s.gate = gate
	if !s.IsFiltered() {
		s.view = nil
		s.viewMod++
		return nil
	}
	next, err := s.project(s.filters)
	if err != nil {
		s.gate = prev
		return err
	}
	s.view = next
	s.viewMod++
	return nil
}

func (s *Scope[E, D]) admits(e E) (bool, error) {
	if s.gate != nil && !s.gate(e) {
		return false, nil
	}
	return matchAll(s.filters, e.Value())
}

// Filters returns the active filter queries in the order they were applied.
func (s *Scope[E, D]) Filters() []domain.FilterQuery {
	out := make([]domain.FilterQuery, len(s.filters))
	for i, f := range s.filters {
		out[i] = f.query
	}
	return out
}

// FilterFunc returns the explicit predicate registered with q, if any.
func (s *Scope[E, D]) FilterFunc(q domain.FilterQuery) (domain.MatchFunc[D], bool) {
	for _, f := range s.filters {
		if f.query == q {
			return f.match, true
		}
	}
	return nil, false
}

// HasFilter reports whether q is active.
func (s *Scope[E, D]) HasFilter(q domain.FilterQuery) bool {
	_, ok := s.FilterFunc(q)
	return ok
}

// Matches reports whether d passes every active filter.
func (s *Scope[E, D]) Matches(d D) (bool, error) {
	return matchAll(s.filters, d)
}

func matchAll[D any](filters []activeFilter[D], d D) (bool, error) {
	for _, f := range filters {
		ok, err := domain.Matches(d, f.query, f.match)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ApplyFilter adds q to the active filters. The visible view becomes the
// intersection of the current view with the entries matching q. It returns
// the entries hidden by q; applied is false when q was already active.
func (s *Scope[E, D]) ApplyFilter(q domain.FilterQuery, match domain.MatchFunc[D]) (hidden []E, applied bool, err error) {
	if s.HasFilter(q) {
		return nil, false, nil
	}
	if match == nil {
		var zero D
		if _, ok := any(zero).(domain.Matchable); !ok && any(zero) != nil && s.store.Len() == 0 {
			return nil, false, fmt.Errorf("filter %s: %T does not implement Matchable: %w", q, zero, domain.ErrUnsupported)
		}
	}
	vis := s.visible()
	next := make([]E, 0, len(vis))
	for _, e := range vis {
		ok, err := domain.Matches(e.Value(), q, match)
		if err != nil {
			return nil, false, err
		}
		if ok {
			next = append(next, e)
		} else {
			hidden = append(hidden, e)
		}
	}
	s.filters = append(s.filters, activeFilter[D]{query: q, match: match})
	s.view = next
	s.viewMod++
	return hidden, true, nil
}

// ResetFilter removes q and recomputes the view from the whole store against
// the remaining filters. It returns the entries that became visible.
func (s *Scope[E, D]) ResetFilter(q domain.FilterQuery) (shown []E, ok bool, err error) {
	i := slices.IndexFunc(s.filters, func(f activeFilter[D]) bool { return f.query == q })
	if i < 0 {
		return nil, false, nil
	}
	remaining := slices.Delete(slices.Clone(s.filters), i, i+1)
	next, err := s.project(remaining)
	if err != nil {
		return nil, false, err
	}
	if len(remaining) == 0 && s.gate == nil {
		next = s.store.entries
	}
	shown = s.diff(next)
	s.filters = remaining
	if s.IsFiltered() {
		s.view = next
	} else {
		s.view = nil
	}
	s.viewMod++
	return shown, true, nil
}

// ResetAllFilters drops every filter and returns the entries that became visible.
func (s *Scope[E, D]) ResetAllFilters() []E {
	if !s.HasFilters() {
		return nil
	}
	next := s.store.entries
	if s.gate != nil {
		// the gate predicate cannot fail
		next, _ = s.project(nil)
	}
	shown := s.diff(next)
	s.filters = nil
	if s.IsFiltered() {
		s.view = next
	} else {
		s.view = nil
	}
	s.viewMod++
	return shown
}

// Refilter recomputes the view from the store against the active filters.
func (s *Scope[E, D]) Refilter() error {
	if !s.IsFiltered() {
		return nil
	}
	next, err := s.project(s.filters)
	if err != nil {
		return err
	}
	s.view = next
	s.viewMod++
	return nil
}

func (s *Scope[E, D]) project(filters []activeFilter[D]) ([]E, error) {
	out := make([]E, 0, s.store.Len())
	for _, e := range s.store.entries {
		if s.gate != nil && !s.gate(e) {
			continue
		}
		ok, err := matchAll(filters, e.Value())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// diff returns the entries of next that are not visible now.
func (s *Scope[E, D]) diff(next []E) []E {
	current := make(map[any]struct{}, len(s.visible()))
	for _, e := range s.visible() {
		current[any(e)] = struct{}{}
	}
	var out []E
	for _, e := range next {
		if _, ok := current[any(e)]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// Sort orders the store (and therefore the view) stably by cmp in the given
// order. A nil cmp requires natural ordering of the data. The pair is
// remembered for Resort and InsertSorted.
func (s *Scope[E, D]) Sort(order domain.Order, cmp domain.Comparator[D]) error {
	entries := s.store.Entries()
	if cmp == nil {
		if err := checkNatural[E, D](entries); err != nil {
			return err
		}
	}
	var cmpErr error
	compare := comparator(order, cmp, &cmpErr)
	slices.SortStableFunc(entries, func(a, b E) int { return compare(a.Value(), b.Value()) })
	if cmpErr != nil {
		return cmpErr
	}
	s.store.Reorder(entries)
	s.syncViewOrder()
	s.sorted, s.order, s.cmp = true, order, cmp
	return nil
}

// Resort repeats the remembered sort, or sorts ascending by natural order
// when no sort was applied yet.
func (s *Scope[E, D]) Resort() error {
	order, cmp, _ := s.SortMemory()
	return s.Sort(order, cmp)
}

// SortMemory returns the remembered order and comparator; ok is false when
// the scope was never sorted.
func (s *Scope[E, D]) SortMemory() (domain.Order, domain.Comparator[D], bool) {
	return s.order, s.cmp, s.sorted
}

// SetSortMemory overwrites the remembered sort without reordering.
func (s *Scope[E, D]) SetSortMemory(order domain.Order, cmp domain.Comparator[D], sorted bool) {
	s.sorted, s.order, s.cmp = sorted, order, cmp
}

// InsertSorted inserts e at the position given by the remembered sort (after
// any equal entries). It returns the visible index, Rejected or Hidden.
func (s *Scope[E, D]) InsertSorted(e E, cmp domain.Comparator[D]) (int, error) {
	order, remembered, _ := s.SortMemory()
	if cmp == nil {
		cmp = remembered
	}
	if cmp == nil {
		if !domain.SupportsNaturalOrder(e.Value()) {
			return Rejected, fmt.Errorf("insert sorted: %T has no natural ordering: %w", e.Value(), domain.ErrUnsupported)
		}
		if err := checkNatural[E, D](s.store.entries); err != nil {
			return Rejected, err
		}
	}
	var cmpErr error
	compare := comparator(order, cmp, &cmpErr)
	entries := s.store.entries
	storePos, _ := slices.BinarySearchFunc(entries, e, func(x, target E) int {
		if compare(x.Value(), target.Value()) <= 0 {
			return -1
		}
		return 1
	})
	if cmpErr != nil {
		return Rejected, cmpErr
	}
	filtered := s.IsFiltered()
	match := true
	if filtered {
		m, err := s.admits(e)
		if err != nil {
			return Rejected, err
		}
		match = m
	}
	viewPos := storePos
	if filtered {
		members := s.membership()
		viewPos = 0
		for _, x := range entries[:storePos] {
			if _, ok := members[any(x)]; ok {
				viewPos++
			}
		}
	}
	ok, err := s.store.Insert(storePos, e)
	if err != nil || !ok {
		return Rejected, err
	}
	if !filtered {
		return storePos, nil
	}
	if !match {
		return Hidden, nil
	}
	s.view = slices.Insert(s.view, viewPos, e)
	return viewPos, nil
}

func (s *Scope[E, D]) membership() map[any]struct{} {
	out := make(map[any]struct{}, len(s.view))
	for _, e := range s.view {
		out[any(e)] = struct{}{}
	}
	return out
}

func (s *Scope[E, D]) syncViewOrder() {
	if !s.IsFiltered() {
		return
	}
	members := s.membership()
	next := make([]E, 0, len(s.view))
	for _, e := range s.store.entries {
		if _, ok := members[any(e)]; ok {
			next = append(next, e)
		}
	}
	s.view = next
	s.viewMod++
}

func checkNatural[E domain.Entry[D], D any](entries []E) error {
	for _, e := range entries {
		if !domain.SupportsNaturalOrder(e.Value()) {
			return fmt.Errorf("sort: %T has no natural ordering: %w", e.Value(), domain.ErrUnsupported)
		}
	}
	return nil
}

func comparator[D any](order domain.Order, cmp domain.Comparator[D], errp *error) func(a, b D) int {
	return func(a, b D) int {
		var c int
		if cmp != nil {
			c = cmp(a, b)
		} else {
			v, err := domain.NaturalCompare(a, b)
			if err != nil {
				if *errp == nil {
					*errp = err
				}
				return 0
			}
			c = v
		}
		if order == domain.Descending {
			switch {
			case c < 0:
				return 1
			case c > 0:
				return -1
			}
			return 0
		}
		return c
	}
}

// Iterator returns a fail-fast iterator over the visible data.
func (s *Scope[E, D]) Iterator() *Iterator[D] {
	return Map(
		func(i int) E { return s.visible()[i] },
		s.Len,
		s.Mod,
		func(e E) D { return e.Value() },
	)
}

// SubList returns a live view of the visible data in [start, end).
func (s *Scope[E, D]) SubList(start, end int) (*SubList[D], error) {
	return NewSubList(
		func(i int) D { return s.visible()[i].Value() },
		s.Len,
		s.Mod,
		start, end,
	)
}
