package adapter

import "adaptercore/pkg/domain"

// IsGroupExpanded reports whether the visible group at gi is expanded.
func (e *Expandable[G, C]) IsGroupExpanded(gi int) (bool, error) {
	g, err := e.groupAt("is group expanded", gi)
	if err != nil {
		return false, err
	}
	return g.expanded, nil
}

// ExpandGroup expands the visible group at gi and reports whether it changed.
func (e *Expandable[G, C]) ExpandGroup(gi int) (bool, error) {
	return e.setExpanded("expand group", gi, true)
}

// CollapseGroup collapses the visible group at gi and reports whether it
// changed.
func (e *Expandable[G, C]) CollapseGroup(gi int) (bool, error) {
	return e.setExpanded("collapse group", gi, false)
}

// TriggerGroupExpansion toggles the visible group at gi and returns whether
// it is expanded afterwards.
func (e *Expandable[G, C]) TriggerGroupExpansion(gi int) (bool, error) {
	if err := e.guard("trigger group expansion"); err != nil {
		return false, err
	}
	g, err := e.groupAt("trigger group expansion", gi)
	if err != nil {
		return false, err
	}
	e.changeExpanded(g, gi, !g.expanded)
	return g.expanded, nil
}

func (e *Expandable[G, C]) setExpanded(op string, gi int, expanded bool) (bool, error) {
	if err := e.guard(op); err != nil {
		return false, err
	}
	g, err := e.groupAt(op, gi)
	if err != nil {
		return false, err
	}
	return e.changeExpanded(g, gi, expanded), nil
}

func (e *Expandable[G, C]) changeExpanded(g *group[G, C], gi int, expanded bool) bool {
	if g.expanded == expanded {
		return false
	}
	g.expanded = expanded
	kind := domain.EventCollapsed
	if expanded {
		kind = domain.EventExpanded
	}
	e.emitGroup(kind, g, gi)
	e.host.structureChanged()
	return true
}

// ExpandAll expands every visible group and reports whether any changed.
func (e *Expandable[G, C]) ExpandAll() (bool, error) { return e.setAllExpanded("expand all", true) }

// CollapseAll collapses every visible group and reports whether any changed.
func (e *Expandable[G, C]) CollapseAll() (bool, error) {
	return e.setAllExpanded("collapse all", false)
}

func (e *Expandable[G, C]) setAllExpanded(op string, expanded bool) (bool, error) {
	if err := e.guard(op); err != nil {
		return false, err
	}
	changed := false
	for gi, g := range e.groups.Visible() {
		changed = e.changeExpanded(g, gi, expanded) || changed
	}
	return changed, nil
}

func groupExpanded[G, C comparable](g *group[G, C]) bool  { return g.expanded }
func groupCollapsed[G, C comparable](g *group[G, C]) bool { return !g.expanded }

// ExpandedGroupIndices returns the visible indices of expanded groups.
func (e *Expandable[G, C]) ExpandedGroupIndices() []int { return e.groupIndices(groupExpanded[G, C]) }

// CollapsedGroupIndices returns the visible indices of collapsed groups.
func (e *Expandable[G, C]) CollapsedGroupIndices() []int {
	return e.groupIndices(groupCollapsed[G, C])
}

// ExpandedGroups returns the data of expanded visible groups.
func (e *Expandable[G, C]) ExpandedGroups() []G { return e.groupValues(groupExpanded[G, C]) }

// CollapsedGroups returns the data of collapsed visible groups.
func (e *Expandable[G, C]) CollapsedGroups() []G { return e.groupValues(groupCollapsed[G, C]) }

// ExpandedGroupCount returns the number of expanded visible groups.
func (e *Expandable[G, C]) ExpandedGroupCount() int { return len(e.ExpandedGroupIndices()) }

// FirstExpandedGroupIndex returns the first expanded visible group, or -1.
func (e *Expandable[G, C]) FirstExpandedGroupIndex() int { return first(e.ExpandedGroupIndices()) }

// LastExpandedGroupIndex returns the last expanded visible group, or -1.
func (e *Expandable[G, C]) LastExpandedGroupIndex() int { return last(e.ExpandedGroupIndices()) }

// FirstCollapsedGroupIndex returns the first collapsed visible group, or -1.
func (e *Expandable[G, C]) FirstCollapsedGroupIndex() int { return first(e.CollapsedGroupIndices()) }

// LastCollapsedGroupIndex returns the last collapsed visible group, or -1.
func (e *Expandable[G, C]) LastCollapsedGroupIndex() int { return last(e.CollapsedGroupIndices()) }

// FirstExpandedGroup returns the data of the first expanded visible group.
func (e *Expandable[G, C]) FirstExpandedGroup() (G, bool) {
	return e.groupValueAt(e.FirstExpandedGroupIndex())
}

// LastExpandedGroup returns the data of the last expanded visible group.
func (e *Expandable[G, C]) LastExpandedGroup() (G, bool) {
	return e.groupValueAt(e.LastExpandedGroupIndex())
}

// FirstCollapsedGroup returns the data of the first collapsed visible group.
func (e *Expandable[G, C]) FirstCollapsedGroup() (G, bool) {
	return e.groupValueAt(e.FirstCollapsedGroupIndex())
}

// LastCollapsedGroup returns the data of the last collapsed visible group.
func (e *Expandable[G, C]) LastCollapsedGroup() (G, bool) {
	return e.groupValueAt(e.LastCollapsedGroupIndex())
}

func (e *Expandable[G, C]) groupValueAt(gi int) (G, bool) {
	if gi < 0 {
		var zero G
		return zero, false
	}
	g, _ := e.groups.At(gi)
	return g.data, true
}
