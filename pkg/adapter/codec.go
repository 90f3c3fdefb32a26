package adapter

import (
	"fmt"

	"adaptercore/internal/codec"
	"adaptercore/internal/collection"
	"adaptercore/pkg/domain"
)

// RestoreOptions supplies what a snapshot cannot carry: the explicit
// predicates of filters applied with ApplyFilterFunc, keyed by query, and
// the custom comparator of the remembered sort.
type RestoreOptions[T any] struct {
	Filters    map[domain.FilterQuery]domain.MatchFunc[T]
	Comparator domain.Comparator[T]
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("restore: "+format+": %w", append(args, domain.ErrInvalidSnapshot)...)
}

func saveFilters[E domain.Entry[D], D any](s *collection.Scope[E, D]) []codec.Filter {
	var out []codec.Filter
	for _, q := range s.Filters() {
		fn, _ := s.FilterFunc(q)
		out = append(out, codec.Filter{Query: q.Query, Flags: q.Flags, Custom: fn != nil})
	}
	return out
}

func saveSort[E domain.Entry[D], D any](s *collection.Scope[E, D]) *codec.Sort {
	order, cmp, sorted := s.SortMemory()
	if !sorted {
		return nil
	}
	return &codec.Sort{Order: order.String(), Custom: cmp != nil}
}

func saveScope[T comparable](s *itemScope[T]) codec.Scope[T] {
	all := s.All()
	items := make([]codec.Item[T], len(all))
	for i, it := range all {
		items[i] = codec.NewItem(it.Data, it.Flags)
	}
	return codec.Scope[T]{Items: items, Filters: saveFilters(s), Sort: saveSort(s)}
}

func checkFlags[T any](data T, f domain.Flags, states int) error {
	if domain.IsNil(data) {
		return invalid("nil data")
	}
	if !domain.IsComparable(data) {
		return invalid("%T is not comparable", data)
	}
	if f.State < 0 || f.State >= states {
		return invalid("state %d outside [0, %d)", f.State, states)
	}
	if f.Selected && !f.Enabled {
		return invalid("disabled entry %v is selected", data)
	}
	return nil
}

// restoreView applies persisted filters and sort memory to a freshly
// populated scope.
func restoreView[E domain.Entry[D], D any](s *collection.Scope[E, D], filters []codec.Filter, sort *codec.Sort, opts RestoreOptions[D]) error {
	for _, f := range filters {
		q := f.FilterQuery()
		var match domain.MatchFunc[D]
		if f.Custom {
			m, ok := opts.Filters[q]
			if !ok || m == nil {
				return invalid("no predicate for filter %s", q)
			}
			match = m
		}
		if _, _, err := s.ApplyFilter(q, match); err != nil {
			return invalid("filter %s: %v", q, err)
		}
	}
	if sort == nil {
		return nil
	}
	order, err := domain.ParseOrder(sort.Order)
	if err != nil {
		return invalid("sort order: %v", err)
	}
	var cmp domain.Comparator[D]
	if sort.Custom {
		if opts.Comparator == nil {
			return invalid("no comparator for custom sort")
		}
		cmp = opts.Comparator
	}
	s.SetSortMemory(order, cmp, true)
	return nil
}

func restoreScope[T comparable](st codec.Scope[T], allow bool, states int, opts RestoreOptions[T]) (*itemScope[T], int, error) {
	s := newItemScope[T](allow)
	selected := 0
	for _, pi := range st.Items {
		f := pi.Flags()
		if err := checkFlags(pi.Data, f, states); err != nil {
			return nil, 0, err
		}
		if s.Store().Add(&domain.Item[T]{Data: pi.Data, Flags: f}) < 0 {
			return nil, 0, invalid("duplicate entry %v", pi.Data)
		}
		if f.Selected {
			selected++
		}
	}
	if err := restoreView(s, st.Filters, st.Sort, opts); err != nil {
		return nil, 0, err
	}
	return s, selected, nil
}

// Save encodes the whole list: every stored entry with its flags, the
// configuration, the active filters and the remembered sort.
func (l *List[T]) Save() ([]byte, error) {
	snap := codec.ListSnapshot[T]{
		Settings: codec.ListSettings{
			AllowDuplicates: l.cfg.AllowDuplicates,
			NumberOfStates:  l.cfg.NumberOfStates,
			ChoiceMode:      l.cfg.ChoiceMode.String(),
			AdaptSelection:  l.cfg.AdaptSelection,
			NotifyOnChange:  l.cfg.NotifyOnChange,
		},
		Scope: saveScope(l.scope),
	}
	return codec.Encode(codec.KindList, snap)
}

// Restore replaces the whole list with the snapshot in blob without
// notifying listeners. On failure the list is left untouched and the error
// wraps domain.ErrInvalidSnapshot; callers fall back to a fresh population.
func (l *List[T]) Restore(blob []byte, opts RestoreOptions[T]) error {
	if err := l.guard("restore"); err != nil {
		return err
	}
	if err := l.restore(blob, opts); err != nil {
		l.cfg.Logger.Warn("restore failed", "error", err)
		return err
	}
	l.host.structureChanged()
	return nil
}

func (l *List[T]) restore(blob []byte, opts RestoreOptions[T]) error {
	var snap codec.ListSnapshot[T]
	if err := codec.Decode(blob, codec.KindList, &snap); err != nil {
		return err
	}
	set := snap.Settings
	if set.NumberOfStates < 1 {
		return invalid("number of states %d", set.NumberOfStates)
	}
	mode, err := domain.ParseChoiceMode(set.ChoiceMode)
	if err != nil {
		return invalid("%v", err)
	}
	scope, selected, err := restoreScope(snap.Scope, set.AllowDuplicates, set.NumberOfStates, opts)
	if err != nil {
		return err
	}
	if (mode == domain.ChoiceNone && selected > 0) || (mode == domain.ChoiceSingle && selected > 1) {
		return invalid("%d selected entries under choice mode %s", selected, mode)
	}
	l.cfg.AllowDuplicates = set.AllowDuplicates
	l.cfg.NumberOfStates = set.NumberOfStates
	l.cfg.ChoiceMode = mode
	l.cfg.AdaptSelection = set.AdaptSelection
	l.cfg.NotifyOnChange = set.NotifyOnChange
	l.scope.Load(scope)
	return nil
}
