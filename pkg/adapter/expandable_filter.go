package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// ApplyGroupFilter hides every group whose data does not match query. It
// returns the hidden groups, or nil when the query is already active.
func (e *Expandable[G, C]) ApplyGroupFilter(query string, flags int) ([]G, error) {
	return e.applyGroupFilter(domain.FilterQuery{Query: query, Flags: flags}, nil)
}

// ApplyGroupFilterFunc is ApplyGroupFilter with an explicit predicate.
func (e *Expandable[G, C]) ApplyGroupFilterFunc(query string, flags int, match domain.MatchFunc[G]) ([]G, error) {
	if match == nil {
		return nil, fmt.Errorf("apply group filter: predicate: %w", domain.ErrNilArgument)
	}
	return e.applyGroupFilter(domain.FilterQuery{Query: query, Flags: flags}, match)
}

func (e *Expandable[G, C]) applyGroupFilter(q domain.FilterQuery, match domain.MatchFunc[G]) ([]G, error) {
	if err := e.guard("apply group filter"); err != nil {
		return nil, err
	}
	hidden, applied, err := e.groups.ApplyFilter(q, match)
	if err != nil {
		e.cfg.Logger.Warn("group filter failed", "query", q.String(), "error", err)
		return nil, err
	}
	if !applied {
		return nil, nil
	}
	out := make([]G, len(hidden))
	lost := false
	for i, g := range hidden {
		out[i] = g.data
		lost = lost || e.dropHiddenSelection(g)
	}
	e.emit(domain.GroupEvent[G, C]{Kind: domain.EventFilterApplied, Target: domain.TargetGroup, GroupIndex: -1, ChildIndex: -1, Filter: q, Groups: out})
	e.host.structureChanged()
	if lost {
		e.adaptAfterLoss(0, -1, false)
	}
	return out, nil
}

// dropHiddenSelection deselects a hidden group and its children when
// selection is adapted automatically.
func (e *Expandable[G, C]) dropHiddenSelection(g *group[G, C]) bool {
	if !e.adapting() {
		return false
	}
	lost := e.deselectGroup(g, Hidden)
	for _, it := range g.children.All() {
		lost = e.deselectChild(g, Hidden, it, g.children.VisibleIndex(it)) || lost
	}
	return lost
}

// ResetGroupFilter removes the active group filter (query, flags).
func (e *Expandable[G, C]) ResetGroupFilter(query string, flags int) (bool, error) {
	if err := e.guard("reset group filter"); err != nil {
		return false, err
	}
	return e.resetGroupFilter(domain.FilterQuery{Query: query, Flags: flags})
}

func (e *Expandable[G, C]) resetGroupFilter(q domain.FilterQuery) (bool, error) {
	shown, ok, err := e.groups.ResetFilter(q)
	if err != nil {
		e.cfg.Logger.Warn("group filter reset failed", "query", q.String(), "error", err)
		return false, err
	}
	if !ok {
		return false, nil
	}
	out := make([]G, len(shown))
	for i, g := range shown {
		out[i] = g.data
	}
	e.emit(domain.GroupEvent[G, C]{Kind: domain.EventFilterReset, Target: domain.TargetGroup, GroupIndex: -1, ChildIndex: -1, Filter: q, Groups: out})
	e.host.structureChanged()
	return true, nil
}

// ResetAllGroupFilters removes every active group filter.
func (e *Expandable[G, C]) ResetAllGroupFilters() (bool, error) {
	if err := e.guard("reset all group filters"); err != nil {
		return false, err
	}
	changed := false
	for _, q := range e.groups.Filters() {
		ok, err := e.resetGroupFilter(q)
		if err != nil {
			return changed, err
		}
		changed = changed || ok
	}
	return changed, nil
}

// IsGroupFiltered reports whether a group filter is active.
func (e *Expandable[G, C]) IsGroupFiltered() bool { return e.groups.HasFilters() }

// IsGroupFilterApplied reports whether the group filter (query, flags) is active.
func (e *Expandable[G, C]) IsGroupFilterApplied(query string, flags int) bool {
	return e.groups.HasFilter(domain.FilterQuery{Query: query, Flags: flags})
}

// ActiveGroupFilters returns the active group filters in application order.
func (e *Expandable[G, C]) ActiveGroupFilters() []domain.FilterQuery { return e.groups.Filters() }

// ApplyChildFilter hides every child of group gi whose data does not match
// query. It returns the hidden children, or nil when the query is already
// active for the group.
func (e *Expandable[G, C]) ApplyChildFilter(gi int, query string, flags int) ([]C, error) {
	return e.applyChildFilterAt(gi, domain.FilterQuery{Query: query, Flags: flags}, nil)
}

// ApplyChildFilterFunc is ApplyChildFilter with an explicit predicate.
func (e *Expandable[G, C]) ApplyChildFilterFunc(gi int, query string, flags int, match domain.MatchFunc[C]) ([]C, error) {
	if match == nil {
		return nil, fmt.Errorf("apply child filter: predicate: %w", domain.ErrNilArgument)
	}
	return e.applyChildFilterAt(gi, domain.FilterQuery{Query: query, Flags: flags}, match)
}

func (e *Expandable[G, C]) applyChildFilterAt(gi int, q domain.FilterQuery, match domain.MatchFunc[C]) ([]C, error) {
	if err := e.guard("apply child filter"); err != nil {
		return nil, err
	}
	g, err := e.groupAt("apply child filter", gi)
	if err != nil {
		return nil, err
	}
	out, _, err := e.applyChildFilter(g, q, match)
	if err != nil {
		return nil, err
	}
	e.refreshGroups()
	e.host.structureChanged()
	return out, nil
}

// ApplyChildFilterAll applies query to the children of every stored group and
// reports whether it became active for at least one.
func (e *Expandable[G, C]) ApplyChildFilterAll(query string, flags int) (bool, error) {
	return e.applyChildFilterAll(domain.FilterQuery{Query: query, Flags: flags}, nil)
}

// ApplyChildFilterAllFunc is ApplyChildFilterAll with an explicit predicate.
func (e *Expandable[G, C]) ApplyChildFilterAllFunc(query string, flags int, match domain.MatchFunc[C]) (bool, error) {
	if match == nil {
		return false, fmt.Errorf("apply child filter: predicate: %w", domain.ErrNilArgument)
	}
	return e.applyChildFilterAll(domain.FilterQuery{Query: query, Flags: flags}, match)
}

func (e *Expandable[G, C]) applyChildFilterAll(q domain.FilterQuery, match domain.MatchFunc[C]) (bool, error) {
	if err := e.guard("apply child filter"); err != nil {
		return false, err
	}
	hit := false
	for _, g := range e.groups.All() {
		_, applied, err := e.applyChildFilter(g, q, match)
		if err != nil {
			return hit, err
		}
		hit = hit || applied
	}
	e.refreshGroups()
	if hit {
		e.host.structureChanged()
	}
	return hit, nil
}

func (e *Expandable[G, C]) applyChildFilter(g *group[G, C], q domain.FilterQuery, match domain.MatchFunc[C]) ([]C, bool, error) {
	hidden, applied, err := g.children.ApplyFilter(q, match)
	if err != nil {
		e.cfg.Logger.Warn("child filter failed", "group", g.data, "query", q.String(), "error", err)
		return nil, false, err
	}
	if !applied {
		return nil, false, nil
	}
	gi := e.groupIndex(g)
	out := values(hidden)
	lost := false
	if e.adapting() {
		for _, it := range hidden {
			lost = e.deselectChild(g, gi, it, Hidden) || lost
		}
	}
	e.emit(domain.GroupEvent[G, C]{Kind: domain.EventFilterApplied, Target: domain.TargetChild, Group: g.data, GroupIndex: gi, ChildIndex: -1, Filter: q, Children: out})
	if lost {
		e.adaptAfterLoss(gi, 0, true)
	}
	return out, true, nil
}

// ResetChildFilter removes the child filter (query, flags) of group gi.
func (e *Expandable[G, C]) ResetChildFilter(gi int, query string, flags int) (bool, error) {
	if err := e.guard("reset child filter"); err != nil {
		return false, err
	}
	g, err := e.groupAt("reset child filter", gi)
	if err != nil {
		return false, err
	}
	ok, err := e.resetChildFilter(g, domain.FilterQuery{Query: query, Flags: flags})
	if err != nil || !ok {
		return false, err
	}
	e.refreshGroups()
	e.host.structureChanged()
	return true, nil
}

// ResetChildFilterAll removes the child filter (query, flags) from every
// stored group and reports whether it was active anywhere.
func (e *Expandable[G, C]) ResetChildFilterAll(query string, flags int) (bool, error) {
	if err := e.guard("reset child filter"); err != nil {
		return false, err
	}
	q := domain.FilterQuery{Query: query, Flags: flags}
	hit := false
	for _, g := range e.groups.All() {
		ok, err := e.resetChildFilter(g, q)
		if err != nil {
			return hit, err
		}
		hit = hit || ok
	}
	e.refreshGroups()
	if hit {
		e.host.structureChanged()
	}
	return hit, nil
}

// ResetAllChildFilters removes every child filter of group gi.
func (e *Expandable[G, C]) ResetAllChildFilters(gi int) (bool, error) {
	if err := e.guard("reset all child filters"); err != nil {
		return false, err
	}
	g, err := e.groupAt("reset all child filters", gi)
	if err != nil {
		return false, err
	}
	changed := false
	for _, q := range g.children.Filters() {
		ok, err := e.resetChildFilter(g, q)
		if err != nil {
			return changed, err
		}
		changed = changed || ok
	}
	e.refreshGroups()
	if changed {
		e.host.structureChanged()
	}
	return changed, nil
}

func (e *Expandable[G, C]) resetChildFilter(g *group[G, C], q domain.FilterQuery) (bool, error) {
	shown, ok, err := g.children.ResetFilter(q)
	if err != nil {
		e.cfg.Logger.Warn("child filter reset failed", "group", g.data, "query", q.String(), "error", err)
		return false, err
	}
	if !ok {
		return false, nil
	}
	e.emit(domain.GroupEvent[G, C]{Kind: domain.EventFilterReset, Target: domain.TargetChild, Group: g.data, GroupIndex: e.groupIndex(g), ChildIndex: -1, Filter: q, Children: values(shown)})
	return true, nil
}

// IsChildFiltered reports whether a child filter is active for group gi.
func (e *Expandable[G, C]) IsChildFiltered(gi int) (bool, error) {
	g, err := e.groupAt("is child filtered", gi)
	if err != nil {
		return false, err
	}
	return g.children.HasFilters(), nil
}

// IsChildFilterApplied reports whether (query, flags) is active for group gi.
func (e *Expandable[G, C]) IsChildFilterApplied(gi int, query string, flags int) (bool, error) {
	g, err := e.groupAt("is child filter applied", gi)
	if err != nil {
		return false, err
	}
	return g.children.HasFilter(domain.FilterQuery{Query: query, Flags: flags}), nil
}

// ActiveChildFilters returns the child filters of group gi in application
// order.
func (e *Expandable[G, C]) ActiveChildFilters(gi int) ([]domain.FilterQuery, error) {
	g, err := e.groupAt("active child filters", gi)
	if err != nil {
		return nil, err
	}
	return g.children.Filters(), nil
}

// FilterEmptyGroups reports whether groups without visible children are
// hidden while a child filter is active for them.
func (e *Expandable[G, C]) FilterEmptyGroups() bool { return e.cfg.FilterEmptyGroups }

// SetFilterEmptyGroups toggles hiding of emptied groups.
func (e *Expandable[G, C]) SetFilterEmptyGroups(on bool) error {
	if err := e.guard("set filter empty groups"); err != nil {
		return err
	}
	if on == e.cfg.FilterEmptyGroups {
		return nil
	}
	gate := nonEmptyGroup[G, C]
	if !on {
		gate = nil
	}
	if err := e.groups.SetGate(gate); err != nil {
		return err
	}
	e.cfg.FilterEmptyGroups = on
	e.host.structureChanged()
	return nil
}
