package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// NumberOfStates returns the number of states of groups and children.
func (e *Expandable[G, C]) NumberOfStates() int { return e.cfg.NumberOfStates }

// SetNumberOfStates changes the number of states; groups and children whose
// state no longer fits are clamped to n-1 and reported.
func (e *Expandable[G, C]) SetNumberOfStates(n int) error {
	if err := e.guard("set number of states"); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("set number of states %d: %w", n, domain.ErrInvalidArgument)
	}
	e.cfg.NumberOfStates = n
	for _, g := range e.groups.All() {
		gi := e.groupIndex(g)
		if g.flags.State >= n {
			e.changeGroupState(g, gi, n-1, false)
		}
		for _, it := range g.children.All() {
			if it.State >= n {
				e.changeChildState(g, gi, it, g.children.VisibleIndex(it), n-1)
			}
		}
	}
	return nil
}

// ChildEnableFollowsGroup reports whether group enable changes cascade.
func (e *Expandable[G, C]) ChildEnableFollowsGroup() bool { return e.cfg.ChildEnableFollowsGroup }

// SetChildEnableFollowsGroup toggles the enable cascade.
func (e *Expandable[G, C]) SetChildEnableFollowsGroup(on bool) { e.cfg.ChildEnableFollowsGroup = on }

// ChildStateFollowsGroup reports whether group state changes cascade.
func (e *Expandable[G, C]) ChildStateFollowsGroup() bool { return e.cfg.ChildStateFollowsGroup }

// SetChildStateFollowsGroup toggles the state cascade.
func (e *Expandable[G, C]) SetChildStateFollowsGroup(on bool) { e.cfg.ChildStateFollowsGroup = on }

// GroupState returns the state of the visible group at gi.
func (e *Expandable[G, C]) GroupState(gi int) (int, error) {
	g, err := e.groupAt("group state", gi)
	if err != nil {
		return 0, err
	}
	return g.flags.State, nil
}

// SetGroupState sets the state of the visible group at gi and returns the
// previous one. With ChildStateFollowsGroup the children follow.
func (e *Expandable[G, C]) SetGroupState(gi, state int) (int, error) {
	if err := e.guard("set group state"); err != nil {
		return 0, err
	}
	g, err := e.groupAt("set group state", gi)
	if err != nil {
		return 0, err
	}
	if err := checkState("set group state", state, e.cfg.NumberOfStates); err != nil {
		return g.flags.State, err
	}
	prev := g.flags.State
	e.changeGroupState(g, gi, state, e.cfg.ChildStateFollowsGroup)
	return prev, nil
}

// TriggerGroupState advances the state of the visible group at gi and
// returns the new state.
func (e *Expandable[G, C]) TriggerGroupState(gi int) (int, error) {
	if err := e.guard("trigger group state"); err != nil {
		return 0, err
	}
	g, err := e.groupAt("trigger group state", gi)
	if err != nil {
		return 0, err
	}
	next := (g.flags.State + 1) % e.cfg.NumberOfStates
	e.changeGroupState(g, gi, next, e.cfg.ChildStateFollowsGroup)
	return next, nil
}

// SetAllGroupStates sets the state of every visible group.
func (e *Expandable[G, C]) SetAllGroupStates(state int) (bool, error) {
	if err := e.guard("set all group states"); err != nil {
		return false, err
	}
	if err := checkState("set all group states", state, e.cfg.NumberOfStates); err != nil {
		return false, err
	}
	changed := false
	for gi, g := range e.groups.Visible() {
		changed = e.changeGroupState(g, gi, state, e.cfg.ChildStateFollowsGroup) || changed
	}
	return changed, nil
}

func (e *Expandable[G, C]) changeGroupState(g *group[G, C], gi, state int, cascade bool) bool {
	changed := false
	if g.flags.State != state {
		g.flags.State = state
		e.emit(domain.GroupEvent[G, C]{Kind: domain.EventStateChanged, Target: domain.TargetGroup, Group: g.data, GroupIndex: gi, ChildIndex: -1, State: state})
		e.host.itemChanged(gi)
		changed = true
	}
	if cascade {
		for _, it := range g.children.All() {
			changed = e.changeChildState(g, gi, it, g.children.VisibleIndex(it), state) || changed
		}
	}
	return changed
}

// ChildState returns the state of visible child ci of group gi.
func (e *Expandable[G, C]) ChildState(gi, ci int) (int, error) {
	_, it, err := e.childAt("child state", gi, ci)
	if err != nil {
		return 0, err
	}
	return it.State, nil
}

// SetChildState sets the state of visible child ci of group gi and returns
// the previous one.
func (e *Expandable[G, C]) SetChildState(gi, ci, state int) (int, error) {
	if err := e.guard("set child state"); err != nil {
		return 0, err
	}
	g, it, err := e.childAt("set child state", gi, ci)
	if err != nil {
		return 0, err
	}
	if err := checkState("set child state", state, e.cfg.NumberOfStates); err != nil {
		return it.State, err
	}
	prev := it.State
	e.changeChildState(g, gi, it, ci, state)
	return prev, nil
}

// TriggerChildState advances the state of visible child ci of group gi and
// returns the new state.
func (e *Expandable[G, C]) TriggerChildState(gi, ci int) (int, error) {
	if err := e.guard("trigger child state"); err != nil {
		return 0, err
	}
	g, it, err := e.childAt("trigger child state", gi, ci)
	if err != nil {
		return 0, err
	}
	next := (it.State + 1) % e.cfg.NumberOfStates
	e.changeChildState(g, gi, it, ci, next)
	return next, nil
}

// SetAllChildStates sets the state of every visible child of group gi.
func (e *Expandable[G, C]) SetAllChildStates(gi, state int) (bool, error) {
	if err := e.guard("set all child states"); err != nil {
		return false, err
	}
	g, err := e.groupAt("set all child states", gi)
	if err != nil {
		return false, err
	}
	if err := checkState("set all child states", state, e.cfg.NumberOfStates); err != nil {
		return false, err
	}
	changed := false
	for ci, it := range g.children.Visible() {
		changed = e.changeChildState(g, gi, it, ci, state) || changed
	}
	return changed, nil
}

func (e *Expandable[G, C]) changeChildState(g *group[G, C], gi int, it *domain.Item[C], ci, state int) bool {
	if it.State == state {
		return false
	}
	it.State = state
	e.emitChild(domain.EventStateChanged, g, gi, it, ci)
	e.host.itemChanged(gi)
	return true
}

// IsGroupEnabled reports whether the visible group at gi is enabled.
func (e *Expandable[G, C]) IsGroupEnabled(gi int) (bool, error) {
	g, err := e.groupAt("is group enabled", gi)
	if err != nil {
		return false, err
	}
	return g.flags.Enabled, nil
}

// SetGroupEnabled enables or disables the visible group at gi. With
// ChildEnableFollowsGroup the children follow.
func (e *Expandable[G, C]) SetGroupEnabled(gi int, enabled bool) (bool, error) {
	if err := e.guard("set group enabled"); err != nil {
		return false, err
	}
	g, err := e.groupAt("set group enabled", gi)
	if err != nil {
		return false, err
	}
	return e.changeGroupEnabled(g, gi, enabled), nil
}

// TriggerGroupEnabled toggles the visible group at gi and returns the new
// value.
func (e *Expandable[G, C]) TriggerGroupEnabled(gi int) (bool, error) {
	if err := e.guard("trigger group enabled"); err != nil {
		return false, err
	}
	g, err := e.groupAt("trigger group enabled", gi)
	if err != nil {
		return false, err
	}
	e.changeGroupEnabled(g, gi, !g.flags.Enabled)
	return g.flags.Enabled, nil
}

// SetAllGroupsEnabled enables or disables every visible group.
func (e *Expandable[G, C]) SetAllGroupsEnabled(enabled bool) (bool, error) {
	if err := e.guard("set all groups enabled"); err != nil {
		return false, err
	}
	changed := false
	for gi, g := range e.groups.Visible() {
		changed = e.changeGroupEnabled(g, gi, enabled) || changed
	}
	return changed, nil
}

func (e *Expandable[G, C]) changeGroupEnabled(g *group[G, C], gi int, enabled bool) bool {
	changed, lost := false, false
	if g.flags.Enabled != enabled {
		g.flags.Enabled = enabled
		kind := domain.EventDisabled
		if enabled {
			kind = domain.EventEnabled
		}
		e.emitGroup(kind, g, gi)
		e.host.itemChanged(gi)
		changed = true
		if !enabled && g.flags.Selected {
			lost = e.deselectGroup(g, gi)
		}
	}
	if e.cfg.ChildEnableFollowsGroup {
		for _, it := range g.children.All() {
			ci := g.children.VisibleIndex(it)
			if !enabled && it.Selected {
				lost = e.deselectChild(g, gi, it, ci) || lost
			}
			changed = e.changeChildEnabled(g, gi, it, ci, enabled) || changed
		}
	}
	if lost {
		e.adaptAfterLoss(gi, -1, false)
	}
	return changed
}

// IsChildEnabled reports whether visible child ci of group gi is enabled.
func (e *Expandable[G, C]) IsChildEnabled(gi, ci int) (bool, error) {
	_, it, err := e.childAt("is child enabled", gi, ci)
	if err != nil {
		return false, err
	}
	return it.Enabled, nil
}

// SetChildEnabled enables or disables visible child ci of group gi.
func (e *Expandable[G, C]) SetChildEnabled(gi, ci int, enabled bool) (bool, error) {
	if err := e.guard("set child enabled"); err != nil {
		return false, err
	}
	g, it, err := e.childAt("set child enabled", gi, ci)
	if err != nil {
		return false, err
	}
	return e.changeChildEnabled(g, gi, it, ci, enabled), nil
}

// TriggerChildEnabled toggles visible child ci of group gi and returns the
// new value.
func (e *Expandable[G, C]) TriggerChildEnabled(gi, ci int) (bool, error) {
	if err := e.guard("trigger child enabled"); err != nil {
		return false, err
	}
	g, it, err := e.childAt("trigger child enabled", gi, ci)
	if err != nil {
		return false, err
	}
	e.changeChildEnabled(g, gi, it, ci, !it.Enabled)
	return it.Enabled, nil
}

// SetAllChildrenEnabled enables or disables every visible child of group gi.
func (e *Expandable[G, C]) SetAllChildrenEnabled(gi int, enabled bool) (bool, error) {
	if err := e.guard("set all children enabled"); err != nil {
		return false, err
	}
	g, err := e.groupAt("set all children enabled", gi)
	if err != nil {
		return false, err
	}
	changed := false
	for ci, it := range g.children.Visible() {
		changed = e.changeChildEnabled(g, gi, it, ci, enabled) || changed
	}
	return changed, nil
}

func (e *Expandable[G, C]) changeChildEnabled(g *group[G, C], gi int, it *domain.Item[C], ci int, enabled bool) bool {
	if it.Enabled == enabled {
		return false
	}
	it.Enabled = enabled
	kind := domain.EventDisabled
	if enabled {
		kind = domain.EventEnabled
	}
	e.emitChild(kind, g, gi, it, ci)
	e.host.itemChanged(gi)
	if !enabled && it.Selected {
		e.deselectChild(g, gi, it, ci)
		e.adaptAfterLoss(gi, ci, true)
	}
	return true
}
