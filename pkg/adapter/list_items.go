package adapter

import "adaptercore/pkg/domain"

// Add appends data. It returns the visible index of the new entry, Rejected
// when the duplicate rule refuses it, or Hidden when it is stored but does
// not pass the active filters.
func (l *List[T]) Add(data T) (int, error) {
	return l.insert("add", l.scope.Len(), data)
}

// Insert stores data before the visible entry at index. It reports false
// when the duplicate rule refused data.
func (l *List[T]) Insert(index int, data T) (bool, error) {
	pos, err := l.insert("insert", index, data)
	if err != nil {
		return false, err
	}
	return pos != Rejected, nil
}

func (l *List[T]) insert(op string, index int, data T) (int, error) {
	if err := l.guard(op); err != nil {
		return Rejected, err
	}
	if err := checkData(op, data); err != nil {
		return Rejected, err
	}
	if err := domain.CheckPosition(op, index, l.scope.Len()); err != nil {
		return Rejected, err
	}
	return l.insertItem(index, domain.NewItem(data))
}

func (l *List[T]) insertItem(index int, it *domain.Item[T]) (int, error) {
	pos, err := l.scope.Insert(index, it)
	if err != nil {
		return Rejected, err
	}
	if pos == Rejected {
		l.cfg.Logger.Debug("duplicate rejected", "data", it.Data)
		return Rejected, nil
	}
	l.added(it, pos)
	return pos, nil
}

func (l *List[T]) added(it *domain.Item[T], pos int) {
	l.emit(domain.Event[T]{Kind: domain.EventAdded, Data: it.Data, Index: pos})
	l.host.structureChanged()
	if pos >= 0 && l.adapting() && !l.hasSelection() && it.Enabled {
		l.selectItem(it, pos)
	}
}

// AddAll appends every element of data. It reports true only when all of
// them were stored; elements accepted before a rejection stay stored and
// their events are delivered.
func (l *List[T]) AddAll(data []T) (bool, error) {
	return l.InsertAll(l.scope.Len(), data)
}

// InsertAll inserts data in order before the visible entry at index, with the
// partial success semantics of AddAll.
func (l *List[T]) InsertAll(index int, data []T) (bool, error) {
	if err := l.guard("insert all"); err != nil {
		return false, err
	}
	if err := domain.CheckPosition("insert all", index, l.scope.Len()); err != nil {
		return false, err
	}
	for _, d := range data {
		if err := checkData("insert all", d); err != nil {
			return false, err
		}
	}
	all := true
	at := index
	for _, d := range data {
		pos, err := l.insertItem(at, domain.NewItem(d))
		if err != nil {
			return false, err
		}
		switch {
		case pos == Rejected:
			all = false
		case pos >= 0:
			at = pos + 1
		}
	}
	return all, nil
}

// AddSorted inserts data at the position given by cmp, or by the remembered
// sort when cmp is nil, after any equal entries.
func (l *List[T]) AddSorted(data T, cmp domain.Comparator[T]) (int, error) {
	if err := l.guard("add sorted"); err != nil {
		return Rejected, err
	}
	if err := checkData("add sorted", data); err != nil {
		return Rejected, err
	}
	it := domain.NewItem(data)
	pos, err := l.scope.InsertSorted(it, cmp)
	if err != nil {
		l.cfg.Logger.Warn("sorted insertion failed", "error", err)
		return Rejected, err
	}
	if pos == Rejected {
		l.cfg.Logger.Debug("duplicate rejected", "data", data)
		return Rejected, nil
	}
	l.added(it, pos)
	return pos, nil
}

// Replace swaps the visible entry at index for a fresh entry holding data.
// It returns the previous data; ok is false when the duplicate rule refused
// data. Listeners observe a removal followed by an addition.
func (l *List[T]) Replace(index int, data T) (old T, ok bool, err error) {
	if err := l.guard("replace"); err != nil {
		return old, false, err
	}
	if err := checkData("replace", data); err != nil {
		return old, false, err
	}
	if err := domain.CheckIndex("replace", index, l.scope.Len()); err != nil {
		return old, false, err
	}
	it := domain.NewItem(data)
	prev, pos, err := l.scope.Replace(index, it)
	if err != nil {
		return old, false, err
	}
	if pos == Rejected {
		l.cfg.Logger.Debug("duplicate rejected", "data", data)
		return old, false, nil
	}
	l.emit(domain.Event[T]{Kind: domain.EventRemoved, Data: prev.Data, Index: index})
	l.emit(domain.Event[T]{Kind: domain.EventAdded, Data: data, Index: pos})
	l.host.structureChanged()
	if prev.Selected {
		l.adaptAround(index)
	}
	return prev.Data, true, nil
}

// RemoveAt removes the visible entry at index and returns its data.
func (l *List[T]) RemoveAt(index int) (T, error) {
	var zero T
	if err := l.guard("remove"); err != nil {
		return zero, err
	}
	if err := domain.CheckIndex("remove", index, l.scope.Len()); err != nil {
		return zero, err
	}
	it, err := l.scope.RemoveAt(index)
	if err != nil {
		return zero, err
	}
	l.removed(it, index)
	return it.Data, nil
}

// Remove removes the first entry holding data, preferring visible entries.
// It reports false when no entry holds data.
func (l *List[T]) Remove(data T) (bool, error) {
	if err := l.guard("remove"); err != nil {
		return false, err
	}
	if err := checkData("remove", data); err != nil {
		return false, err
	}
	return l.remove(data), nil
}

func (l *List[T]) remove(data T) bool {
	it := l.find(data)
	if it == nil {
		return false
	}
	index, ok := l.scope.RemoveEntry(it)
	if ok {
		l.removed(it, index)
	}
	return ok
}

func (l *List[T]) removed(it *domain.Item[T], index int) {
	l.emit(domain.Event[T]{Kind: domain.EventRemoved, Data: it.Data, Index: index})
	l.host.structureChanged()
	if it.Selected {
		l.adaptAround(index)
	}
}

// RemoveAll removes one entry per element of data. It reports true only when
// every element was found; found elements are removed regardless.
func (l *List[T]) RemoveAll(data []T) (bool, error) {
	if err := l.guard("remove all"); err != nil {
		return false, err
	}
	for _, d := range data {
		if err := checkData("remove all", d); err != nil {
			return false, err
		}
	}
	all := true
	for _, d := range data {
		if !l.remove(d) {
			all = false
		}
	}
	return all, nil
}

// RetainAll removes every stored entry whose data is not in keep and reports
// whether anything was removed.
func (l *List[T]) RetainAll(keep []T) (bool, error) {
	if err := l.guard("retain all"); err != nil {
		return false, err
	}
	set := make(map[T]struct{}, len(keep))
	for _, d := range keep {
		set[d] = struct{}{}
	}
	all := l.scope.All()
	changed := false
	for i := len(all) - 1; i >= 0; i-- {
		if _, ok := set[all[i].Data]; ok {
			continue
		}
		if index, ok := l.scope.RemoveEntry(all[i]); ok {
			l.removed(all[i], index)
			changed = true
		}
	}
	return changed, nil
}

// Clear removes every stored entry, last to first.
func (l *List[T]) Clear() error {
	if err := l.guard("clear"); err != nil {
		return err
	}
	removals := l.scope.Clear()
	for _, r := range removals {
		l.emit(domain.Event[T]{Kind: domain.EventRemoved, Data: r.Entry.Data, Index: r.Index})
	}
	if len(removals) > 0 {
		l.host.structureChanged()
	}
	return nil
}

func values[T any](entries []*domain.Item[T]) []T {
	out := make([]T, len(entries))
	for i, it := range entries {
		out[i] = it.Data
	}
	return out
}
