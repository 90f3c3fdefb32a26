package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// ChoiceMode returns the current choice mode.
func (e *Expandable[G, C]) ChoiceMode() domain.ChoiceMode { return e.cfg.ChoiceMode }

// SelectionScope returns which levels may be selected.
func (e *Expandable[G, C]) SelectionScope() domain.SelectionScope { return e.cfg.SelectionScope }

// SetChoiceMode switches the choice mode and selection scope. Selections the
// new rules do not allow are cleared; in single mode only the first selected
// entry (groups before children, store order) is kept.
func (e *Expandable[G, C]) SetChoiceMode(m domain.ChoiceMode, scope domain.SelectionScope) error {
	if err := e.guard("set choice mode"); err != nil {
		return err
	}
	e.cfg.ChoiceMode, e.cfg.SelectionScope = m, scope
	keep := m == domain.ChoiceSingle
	for _, g := range e.groups.All() {
		gi := e.groupIndex(g)
		if g.flags.Selected {
			switch {
			case m == domain.ChoiceNone || !scope.AllowsGroups():
				e.deselectGroup(g, gi)
			case m == domain.ChoiceSingle && !keep:
				e.deselectGroup(g, gi)
			default:
				keep = false
			}
		}
	}
	for _, g := range e.groups.All() {
		gi := e.groupIndex(g)
		for _, it := range g.children.All() {
			if !it.Selected {
				continue
			}
			ci := g.children.VisibleIndex(it)
			switch {
			case m == domain.ChoiceNone || !scope.AllowsChildren():
				e.deselectChild(g, gi, it, ci)
			case m == domain.ChoiceSingle && !keep:
				e.deselectChild(g, gi, it, ci)
			default:
				keep = false
			}
		}
	}
	return nil
}

// AdaptSelection reports whether selection is adapted automatically.
func (e *Expandable[G, C]) AdaptSelection() bool { return e.cfg.AdaptSelection }

// SetAdaptSelection toggles automatic selection adaption.
func (e *Expandable[G, C]) SetAdaptSelection(on bool) { e.cfg.AdaptSelection = on }

func (e *Expandable[G, C]) checkChoice(op string, target domain.Target) error {
	if e.cfg.ChoiceMode == domain.ChoiceNone {
		return fmt.Errorf("%s: choice mode %s: %w", op, e.cfg.ChoiceMode, domain.ErrIllegalState)
	}
	if target == domain.TargetGroup && !e.cfg.SelectionScope.AllowsGroups() ||
		target == domain.TargetChild && !e.cfg.SelectionScope.AllowsChildren() {
		return fmt.Errorf("%s: selection scope %s: %w", op, e.cfg.SelectionScope, domain.ErrIllegalState)
	}
	return nil
}

// IsGroupSelected reports whether the visible group at gi is selected.
func (e *Expandable[G, C]) IsGroupSelected(gi int) (bool, error) {
	g, err := e.groupAt("is group selected", gi)
	if err != nil {
		return false, err
	}
	return g.flags.Selected, nil
}

// SetGroupSelected selects or deselects the visible group at gi and reports
// whether it changed.
func (e *Expandable[G, C]) SetGroupSelected(gi int, selected bool) (bool, error) {
	if err := e.guard("set group selected"); err != nil {
		return false, err
	}
	if err := e.checkChoice("set group selected", domain.TargetGroup); err != nil {
		return false, err
	}
	g, err := e.groupAt("set group selected", gi)
	if err != nil {
		return false, err
	}
	if selected {
		return e.selectGroup(g, gi), nil
	}
	return e.deselectGroup(g, gi), nil
}

// TriggerGroupSelection toggles the selection of the visible group at gi.
func (e *Expandable[G, C]) TriggerGroupSelection(gi int) (bool, error) {
	if err := e.guard("trigger group selection"); err != nil {
		return false, err
	}
	if err := e.checkChoice("trigger group selection", domain.TargetGroup); err != nil {
		return false, err
	}
	g, err := e.groupAt("trigger group selection", gi)
	if err != nil {
		return false, err
	}
	if g.flags.Selected {
		return e.deselectGroup(g, gi), nil
	}
	return e.selectGroup(g, gi), nil
}

// SetAllGroupsSelected selects or deselects every visible enabled group.
func (e *Expandable[G, C]) SetAllGroupsSelected(selected bool) (bool, error) {
	if err := e.guard("set all groups selected"); err != nil {
		return false, err
	}
	if err := e.checkChoice("set all groups selected", domain.TargetGroup); err != nil {
		return false, err
	}
	if selected && e.cfg.ChoiceMode == domain.ChoiceSingle && e.groups.Len() > 1 {
		return false, fmt.Errorf("set all groups selected: choice mode %s: %w", e.cfg.ChoiceMode, domain.ErrIllegalState)
	}
	changed := false
	for gi, g := range e.groups.Visible() {
		if selected {
			changed = e.selectGroup(g, gi) || changed
		} else {
			changed = e.deselectGroup(g, gi) || changed
		}
	}
	return changed, nil
}

// IsChildSelected reports whether visible child ci of group gi is selected.
func (e *Expandable[G, C]) IsChildSelected(gi, ci int) (bool, error) {
	_, it, err := e.childAt("is child selected", gi, ci)
	if err != nil {
		return false, err
	}
	return it.Selected, nil
}

// SetChildSelected selects or deselects visible child ci of group gi and
// reports whether it changed.
func (e *Expandable[G, C]) SetChildSelected(gi, ci int, selected bool) (bool, error) {
	if err := e.guard("set child selected"); err != nil {
		return false, err
	}
	if err := e.checkChoice("set child selected", domain.TargetChild); err != nil {
		return false, err
	}
	g, it, err := e.childAt("set child selected", gi, ci)
	if err != nil {
		return false, err
	}
	if selected {
		return e.selectChild(g, gi, it, ci), nil
	}
	return e.deselectChild(g, gi, it, ci), nil
}

// TriggerChildSelection toggles the selection of visible child ci of group gi.
func (e *Expandable[G, C]) TriggerChildSelection(gi, ci int) (bool, error) {
	if err := e.guard("trigger child selection"); err != nil {
		return false, err
	}
	if err := e.checkChoice("trigger child selection", domain.TargetChild); err != nil {
		return false, err
	}
	g, it, err := e.childAt("trigger child selection", gi, ci)
	if err != nil {
		return false, err
	}
	if it.Selected {
		return e.deselectChild(g, gi, it, ci), nil
	}
	return e.selectChild(g, gi, it, ci), nil
}

// SetAllChildrenSelected selects or deselects every visible enabled child of
// group gi.
func (e *Expandable[G, C]) SetAllChildrenSelected(gi int, selected bool) (bool, error) {
	if err := e.guard("set all children selected"); err != nil {
		return false, err
	}
	if err := e.checkChoice("set all children selected", domain.TargetChild); err != nil {
		return false, err
	}
	g, err := e.groupAt("set all children selected", gi)
	if err != nil {
		return false, err
	}
	if selected && e.cfg.ChoiceMode == domain.ChoiceSingle && g.children.Len() > 1 {
		return false, fmt.Errorf("set all children selected: choice mode %s: %w", e.cfg.ChoiceMode, domain.ErrIllegalState)
	}
	changed := false
	for ci, it := range g.children.Visible() {
		if selected {
			changed = e.selectChild(g, gi, it, ci) || changed
		} else {
			changed = e.deselectChild(g, gi, it, ci) || changed
		}
	}
	return changed, nil
}

// ClearSelection deselects every group and child, visible or not, and
// reports whether anything changed.
func (e *Expandable[G, C]) ClearSelection() (bool, error) {
	if err := e.guard("clear selection"); err != nil {
		return false, err
	}
	return e.deselectAll(nil, nil), nil
}

// deselectAll deselects every selected entry except the group or child
// given.
func (e *Expandable[G, C]) deselectAll(exceptGroup *group[G, C], exceptChild *domain.Item[C]) bool {
	changed := false
	for _, g := range e.groups.All() {
		gi := e.groupIndex(g)
		if g != exceptGroup && g.flags.Selected {
			changed = e.deselectGroup(g, gi) || changed
		}
		for _, it := range g.children.All() {
			if it != exceptChild && it.Selected {
				changed = e.deselectChild(g, gi, it, g.children.VisibleIndex(it)) || changed
			}
		}
	}
	return changed
}

func (e *Expandable[G, C]) selectGroup(g *group[G, C], gi int) bool {
	if g.flags.Selected {
		return false
	}
	if !g.flags.Enabled {
		e.cfg.Logger.Debug("selection of disabled group ignored", "group", g.data)
		return false
	}
	if e.cfg.ChoiceMode == domain.ChoiceSingle {
		e.deselectAll(g, nil)
	}
	g.flags.Selected = true
	e.emitGroup(domain.EventSelected, g, gi)
	e.host.itemChanged(gi)
	return true
}

func (e *Expandable[G, C]) deselectGroup(g *group[G, C], gi int) bool {
	if !g.flags.Selected {
		return false
	}
	g.flags.Selected = false
	e.emitGroup(domain.EventUnselected, g, gi)
	e.host.itemChanged(gi)
	return true
}

func (e *Expandable[G, C]) selectChild(g *group[G, C], gi int, it *domain.Item[C], ci int) bool {
	if it.Selected {
		return false
	}
	if !it.Enabled {
		e.cfg.Logger.Debug("selection of disabled child ignored", "group", g.data, "child", it.Data)
		return false
	}
	if e.cfg.ChoiceMode == domain.ChoiceSingle {
		e.deselectAll(nil, it)
	}
	it.Selected = true
	e.emitChild(domain.EventSelected, g, gi, it, ci)
	e.host.itemChanged(gi)
	return true
}

func (e *Expandable[G, C]) deselectChild(g *group[G, C], gi int, it *domain.Item[C], ci int) bool {
	if !it.Selected {
		return false
	}
	it.Selected = false
	e.emitChild(domain.EventUnselected, g, gi, it, ci)
	e.host.itemChanged(gi)
	return true
}

func (e *Expandable[G, C]) adapting() bool {
	return e.cfg.ChoiceMode == domain.ChoiceSingle && e.cfg.AdaptSelection
}

func (e *Expandable[G, C]) hasSelection() bool {
	for _, g := range e.groups.All() {
		if g.flags.Selected {
			return true
		}
		if g.children.Store().IndexFunc(func(it *domain.Item[C]) bool { return it.Selected }) >= 0 {
			return true
		}
	}
	return false
}

// nearest visits the indices of [0, n) by increasing distance from index.
func nearest(index, n int, visit func(i int) bool) {
	index = max(0, min(index, n-1))
	for d := 0; d < n; d++ {
		for _, i := range [2]int{index + d, index - d} {
			if i >= 0 && i < n && visit(i) {
				return
			}
		}
	}
}

// adaptAfterLoss selects the entry nearest to the lost one when adaption is
// on and nothing is selected. Children of the same group are preferred for a
// lost child.
func (e *Expandable[G, C]) adaptAfterLoss(gi, ci int, child bool) {
	if !e.adapting() || e.hasSelection() {
		return
	}
	groups := e.groups.Visible()
	if len(groups) == 0 {
		return
	}
	scope := e.cfg.SelectionScope
	pickChild := func(g *group[G, C], gi, around int) bool {
		kids := g.children.Visible()
		done := false
		nearest(around, len(kids), func(i int) bool {
			if kids[i].Enabled {
				done = e.selectChild(g, gi, kids[i], i)
			}
			return done
		})
		return done
	}
	if child && scope.AllowsChildren() && gi >= 0 && gi < len(groups) && pickChild(groups[gi], gi, ci) {
		return
	}
	if scope.AllowsGroups() {
		nearest(gi, len(groups), func(i int) bool {
			return groups[i].flags.Enabled && e.selectGroup(groups[i], i)
		})
		return
	}
	nearest(gi, len(groups), func(i int) bool { return pickChild(groups[i], i, 0) })
}

func (e *Expandable[G, C]) groupIndices(pred func(*group[G, C]) bool) []int {
	var out []int
	for i, g := range e.groups.Visible() {
		if pred(g) {
			out = append(out, i)
		}
	}
	return out
}

func (e *Expandable[G, C]) groupValues(pred func(*group[G, C]) bool) []G {
	var out []G
	for _, g := range e.groups.Visible() {
		if pred(g) {
			out = append(out, g.data)
		}
	}
	return out
}

func first(indices []int) int {
	if len(indices) == 0 {
		return -1
	}
	return indices[0]
}

func last(indices []int) int {
	if len(indices) == 0 {
		return -1
	}
	return indices[len(indices)-1]
}

func groupSelected[G, C comparable](g *group[G, C]) bool   { return g.flags.Selected }
func groupUnselected[G, C comparable](g *group[G, C]) bool { return !g.flags.Selected }

// SelectedGroupIndex returns the visible index of the first selected group, or -1.
func (e *Expandable[G, C]) SelectedGroupIndex() int { return first(e.SelectedGroupIndices()) }

// LastSelectedGroupIndex returns the visible index of the last selected group, or -1.
func (e *Expandable[G, C]) LastSelectedGroupIndex() int { return last(e.SelectedGroupIndices()) }

// UnselectedGroupIndex returns the visible index of the first unselected group, or -1.
func (e *Expandable[G, C]) UnselectedGroupIndex() int { return first(e.UnselectedGroupIndices()) }

// LastUnselectedGroupIndex returns the visible index of the last unselected group, or -1.
func (e *Expandable[G, C]) LastUnselectedGroupIndex() int { return last(e.UnselectedGroupIndices()) }

// SelectedGroupIndices returns the visible indices of selected groups.
func (e *Expandable[G, C]) SelectedGroupIndices() []int { return e.groupIndices(groupSelected[G, C]) }

// UnselectedGroupIndices returns the visible indices of unselected groups.
func (e *Expandable[G, C]) UnselectedGroupIndices() []int {
	return e.groupIndices(groupUnselected[G, C])
}

// SelectedGroups returns the data of selected visible groups.
func (e *Expandable[G, C]) SelectedGroups() []G { return e.groupValues(groupSelected[G, C]) }

// UnselectedGroups returns the data of unselected visible groups.
func (e *Expandable[G, C]) UnselectedGroups() []G { return e.groupValues(groupUnselected[G, C]) }

// SelectedGroupCount returns the number of selected visible groups.
func (e *Expandable[G, C]) SelectedGroupCount() int { return len(e.SelectedGroupIndices()) }

func (e *Expandable[G, C]) childIndices(op string, gi int, selected bool) ([]int, error) {
	g, err := e.groupAt(op, gi)
	if err != nil {
		return nil, err
	}
	var out []int
	for i, it := range g.children.Visible() {
		if it.Selected == selected {
			out = append(out, i)
		}
	}
	return out, nil
}

// SelectedChildIndices returns the visible indices of selected children of
// group gi.
func (e *Expandable[G, C]) SelectedChildIndices(gi int) ([]int, error) {
	return e.childIndices("selected children", gi, true)
}

// UnselectedChildIndices returns the visible indices of unselected children
// of group gi.
func (e *Expandable[G, C]) UnselectedChildIndices(gi int) ([]int, error) {
	return e.childIndices("unselected children", gi, false)
}

func (e *Expandable[G, C]) childValues(op string, gi int, selected bool) ([]C, error) {
	g, err := e.groupAt(op, gi)
	if err != nil {
		return nil, err
	}
	var out []C
	for _, it := range g.children.Visible() {
		if it.Selected == selected {
			out = append(out, it.Data)
		}
	}
	return out, nil
}

// SelectedChildren returns the data of selected visible children of group gi.
func (e *Expandable[G, C]) SelectedChildren(gi int) ([]C, error) {
	return e.childValues("selected children", gi, true)
}

// UnselectedChildren returns the data of unselected visible children of
// group gi.
func (e *Expandable[G, C]) UnselectedChildren(gi int) ([]C, error) {
	return e.childValues("unselected children", gi, false)
}

// SelectedChildIndex returns the first selected child index of group gi, or -1.
func (e *Expandable[G, C]) SelectedChildIndex(gi int) (int, error) {
	ix, err := e.SelectedChildIndices(gi)
	return first(ix), err
}

// LastSelectedChildIndex returns the last selected child index of group gi, or -1.
func (e *Expandable[G, C]) LastSelectedChildIndex(gi int) (int, error) {
	ix, err := e.SelectedChildIndices(gi)
	return last(ix), err
}

// UnselectedChildIndex returns the first unselected child index of group gi, or -1.
func (e *Expandable[G, C]) UnselectedChildIndex(gi int) (int, error) {
	ix, err := e.UnselectedChildIndices(gi)
	return first(ix), err
}

// LastUnselectedChildIndex returns the last unselected child index of group gi, or -1.
func (e *Expandable[G, C]) LastUnselectedChildIndex(gi int) (int, error) {
	ix, err := e.UnselectedChildIndices(gi)
	return last(ix), err
}

// SelectedChildPositions returns the positions of every selected visible
// child of every visible group.
func (e *Expandable[G, C]) SelectedChildPositions() []ChildPosition {
	var out []ChildPosition
	for gi, g := range e.groups.Visible() {
		for ci, it := range g.children.Visible() {
			if it.Selected {
				out = append(out, ChildPosition{Group: gi, Child: ci})
			}
		}
	}
	return out
}

// SelectedChildCount returns the number of selected visible children of
// visible groups.
func (e *Expandable[G, C]) SelectedChildCount() int { return len(e.SelectedChildPositions()) }
