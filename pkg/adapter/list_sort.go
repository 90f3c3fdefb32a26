package adapter

import "adaptercore/pkg/domain"

// Sort orders all stored entries stably by cmp, or by the natural order of
// the data when cmp is nil. The order and comparator are remembered.
func (l *List[T]) Sort(order domain.Order, cmp domain.Comparator[T]) error {
	if err := l.guard("sort"); err != nil {
		return err
	}
	if err := l.scope.Sort(order, cmp); err != nil {
		l.cfg.Logger.Warn("sort failed", "order", order.String(), "error", err)
		return err
	}
	l.emit(domain.Event[T]{Kind: domain.EventSorted, Items: l.scope.Values(), Order: order})
	l.host.structureChanged()
	return nil
}

// Resort repeats the remembered sort; without one it sorts ascending by
// natural order.
func (l *List[T]) Resort() error {
	order, cmp, _ := l.scope.SortMemory()
	return l.Sort(order, cmp)
}

// SortOrder returns the remembered order; ok is false when the list was
// never sorted.
func (l *List[T]) SortOrder() (order domain.Order, ok bool) {
	order, _, ok = l.scope.SortMemory()
	return order, ok
}
