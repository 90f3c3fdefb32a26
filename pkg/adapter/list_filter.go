package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// ApplyFilter hides every entry whose data does not match query. The data
// must implement domain.Matchable. It returns the data hidden by this filter,
// or nil when the same query is already active.
func (l *List[T]) ApplyFilter(query string, flags int) ([]T, error) {
	return l.applyFilter(domain.FilterQuery{Query: query, Flags: flags}, nil)
}

// ApplyFilterFunc is ApplyFilter with an explicit predicate, which takes
// precedence over the data's own matching.
func (l *List[T]) ApplyFilterFunc(query string, flags int, match domain.MatchFunc[T]) ([]T, error) {
	if match == nil {
		return nil, fmt.Errorf("apply filter: predicate: %w", domain.ErrNilArgument)
	}
	return l.applyFilter(domain.FilterQuery{Query: query, Flags: flags}, match)
}

func (l *List[T]) applyFilter(q domain.FilterQuery, match domain.MatchFunc[T]) ([]T, error) {
	if err := l.guard("apply filter"); err != nil {
		return nil, err
	}
	selected := l.SelectedIndex()
	hidden, applied, err := l.scope.ApplyFilter(q, match)
	if err != nil {
		l.cfg.Logger.Warn("filter failed", "query", q.String(), "error", err)
		return nil, err
	}
	if !applied {
		return nil, nil
	}
	out := values(hidden)
	l.emit(domain.Event[T]{Kind: domain.EventFilterApplied, Filter: q, Items: out})
	l.host.structureChanged()
	l.adaptHidden(hidden, selected)
	return out, nil
}

// adaptHidden moves a single selection away from entries that just became
// hidden. previous is the visible index the selection had before.
func (l *List[T]) adaptHidden(hidden []*domain.Item[T], previous int) {
	if !l.adapting() {
		return
	}
	for _, it := range hidden {
		if it.Selected {
			l.deselectItem(it, Hidden)
			l.adaptAround(min(previous, l.scope.Len()-1))
			return
		}
	}
}

// ResetFilter removes the active filter (query, flags) and reports whether it
// was active. The view is recomputed from all stored entries against the
// remaining filters.
func (l *List[T]) ResetFilter(query string, flags int) (bool, error) {
	if err := l.guard("reset filter"); err != nil {
		return false, err
	}
	return l.resetFilter(domain.FilterQuery{Query: query, Flags: flags})
}

func (l *List[T]) resetFilter(q domain.FilterQuery) (bool, error) {
	shown, ok, err := l.scope.ResetFilter(q)
	if err != nil {
		l.cfg.Logger.Warn("filter reset failed", "query", q.String(), "error", err)
		return false, err
	}
	if !ok {
		return false, nil
	}
	l.emit(domain.Event[T]{Kind: domain.EventFilterReset, Filter: q, Items: values(shown)})
	l.host.structureChanged()
	return true, nil
}

// ResetAllFilters removes every active filter in the order they were
// applied and reports whether any was active.
func (l *List[T]) ResetAllFilters() (bool, error) {
	if err := l.guard("reset all filters"); err != nil {
		return false, err
	}
	changed := false
	for _, q := range l.scope.Filters() {
		ok, err := l.resetFilter(q)
		if err != nil {
			return changed, err
		}
		changed = changed || ok
	}
	return changed, nil
}

// IsFiltered reports whether at least one filter is active.
func (l *List[T]) IsFiltered() bool { return l.scope.HasFilters() }

// IsFilterApplied reports whether (query, flags) is active.
func (l *List[T]) IsFilterApplied(query string, flags int) bool {
	return l.scope.HasFilter(domain.FilterQuery{Query: query, Flags: flags})
}

// ActiveFilters returns the active queries in the order they were applied.
func (l *List[T]) ActiveFilters() []domain.FilterQuery { return l.scope.Filters() }
