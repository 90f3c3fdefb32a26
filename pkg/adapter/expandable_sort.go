package adapter

import "adaptercore/pkg/domain"

// SortGroups orders the groups stably by cmp, or by natural order when cmp
// is nil, and remembers the pair.
func (e *Expandable[G, C]) SortGroups(order domain.Order, cmp domain.Comparator[G]) error {
	if err := e.guard("sort groups"); err != nil {
		return err
	}
	if err := e.groups.Sort(order, cmp); err != nil {
		e.cfg.Logger.Warn("group sort failed", "order", order.String(), "error", err)
		return err
	}
	e.emit(domain.GroupEvent[G, C]{Kind: domain.EventSorted, Target: domain.TargetGroup, GroupIndex: -1, ChildIndex: -1, Groups: e.groups.Values(), Order: order})
	e.host.structureChanged()
	return nil
}

// ResortGroups repeats the remembered group sort.
func (e *Expandable[G, C]) ResortGroups() error {
	order, cmp, _ := e.groups.SortMemory()
	return e.SortGroups(order, cmp)
}

// GroupSortOrder returns the remembered group order; ok is false when the
// groups were never sorted.
func (e *Expandable[G, C]) GroupSortOrder() (order domain.Order, ok bool) {
	order, _, ok = e.groups.SortMemory()
	return order, ok
}

// SortChildren orders the children of group gi and remembers the pair for
// that group.
func (e *Expandable[G, C]) SortChildren(gi int, order domain.Order, cmp domain.Comparator[C]) error {
	if err := e.guard("sort children"); err != nil {
		return err
	}
	g, err := e.groupAt("sort children", gi)
	if err != nil {
		return err
	}
	if err := e.sortChildren(g, gi, order, cmp); err != nil {
		return err
	}
	e.host.structureChanged()
	return nil
}

// ResortChildren repeats the remembered child sort of group gi.
func (e *Expandable[G, C]) ResortChildren(gi int) error {
	g, err := e.groupAt("resort children", gi)
	if err != nil {
		return err
	}
	order, cmp, _ := g.children.SortMemory()
	return e.SortChildren(gi, order, cmp)
}

// ChildSortOrder returns the remembered child order of group gi.
func (e *Expandable[G, C]) ChildSortOrder(gi int) (domain.Order, bool, error) {
	g, err := e.groupAt("child sort order", gi)
	if err != nil {
		return domain.Ascending, false, err
	}
	order, _, ok := g.children.SortMemory()
	return order, ok, nil
}

// SortAllChildren sorts the children of every stored group.
func (e *Expandable[G, C]) SortAllChildren(order domain.Order, cmp domain.Comparator[C]) error {
	if err := e.guard("sort all children"); err != nil {
		return err
	}
	for _, g := range e.groups.All() {
		if err := e.sortChildren(g, e.groupIndex(g), order, cmp); err != nil {
			return err
		}
	}
	e.host.structureChanged()
	return nil
}

func (e *Expandable[G, C]) sortChildren(g *group[G, C], gi int, order domain.Order, cmp domain.Comparator[C]) error {
	if err := g.children.Sort(order, cmp); err != nil {
		e.cfg.Logger.Warn("child sort failed", "group", g.data, "order", order.String(), "error", err)
		return err
	}
	e.emit(domain.GroupEvent[G, C]{Kind: domain.EventSorted, Target: domain.TargetChild, Group: g.data, GroupIndex: gi, ChildIndex: -1, Children: g.children.Values(), Order: order})
	return nil
}
