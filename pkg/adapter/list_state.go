package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// NumberOfStates returns the number of item states.
func (l *List[T]) NumberOfStates() int { return l.cfg.NumberOfStates }

// SetNumberOfStates changes the number of item states. Stored entries whose
// state no longer fits are clamped to n-1 and reported.
func (l *List[T]) SetNumberOfStates(n int) error {
	if err := l.guard("set number of states"); err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("set number of states %d: %w", n, domain.ErrInvalidArgument)
	}
	l.cfg.NumberOfStates = n
	for _, it := range l.scope.All() {
		if it.State >= n {
			l.changeState(it, l.scope.VisibleIndex(it), n-1)
		}
	}
	return nil
}

func checkState(op string, s, n int) error {
	if s < 0 || s >= n {
		return fmt.Errorf("%s: state %d outside [0, %d): %w", op, s, n, domain.ErrInvalidArgument)
	}
	return nil
}

// State returns the state of the visible entry at index.
func (l *List[T]) State(index int) (int, error) {
	it, err := l.at("state", index)
	if err != nil {
		return 0, err
	}
	return it.State, nil
}

// SetState sets the state of the visible entry at index and returns the
// previous one.
func (l *List[T]) SetState(index, state int) (int, error) {
	if err := l.guard("set state"); err != nil {
		return 0, err
	}
	it, err := l.at("set state", index)
	if err != nil {
		return 0, err
	}
	if err := checkState("set state", state, l.cfg.NumberOfStates); err != nil {
		return it.State, err
	}
	prev := it.State
	l.changeState(it, index, state)
	return prev, nil
}

// TriggerState advances the state of the visible entry at index, wrapping
// around, and returns the new state.
func (l *List[T]) TriggerState(index int) (int, error) {
	if err := l.guard("trigger state"); err != nil {
		return 0, err
	}
	it, err := l.at("trigger state", index)
	if err != nil {
		return 0, err
	}
	next := (it.State + 1) % l.cfg.NumberOfStates
	l.changeState(it, index, next)
	return next, nil
}

// SetAllStates sets the state of every visible entry and reports whether
// any changed.
func (l *List[T]) SetAllStates(state int) (bool, error) {
	if err := l.guard("set all states"); err != nil {
		return false, err
	}
	if err := checkState("set all states", state, l.cfg.NumberOfStates); err != nil {
		return false, err
	}
	changed := false
	for i, it := range l.scope.Visible() {
		changed = l.changeState(it, i, state) || changed
	}
	return changed, nil
}

func (l *List[T]) changeState(it *domain.Item[T], index, state int) bool {
	if it.State == state {
		return false
	}
	it.State = state
	l.emit(domain.Event[T]{Kind: domain.EventStateChanged, Data: it.Data, Index: index, State: state})
	l.host.itemChanged(index)
	return true
}

// IsEnabled reports whether the visible entry at index is enabled.
func (l *List[T]) IsEnabled(index int) (bool, error) {
	it, err := l.at("is enabled", index)
	if err != nil {
		return false, err
	}
	return it.Enabled, nil
}

// SetEnabled enables or disables the visible entry at index and reports
// whether it changed. Disabling a selected entry deselects it.
func (l *List[T]) SetEnabled(index int, enabled bool) (bool, error) {
	if err := l.guard("set enabled"); err != nil {
		return false, err
	}
	it, err := l.at("set enabled", index)
	if err != nil {
		return false, err
	}
	return l.changeEnabled(it, index, enabled), nil
}

// TriggerEnabled toggles the enabled flag of the visible entry at index and
// returns the new value.
func (l *List[T]) TriggerEnabled(index int) (bool, error) {
	if err := l.guard("trigger enabled"); err != nil {
		return false, err
	}
	it, err := l.at("trigger enabled", index)
	if err != nil {
		return false, err
	}
	l.changeEnabled(it, index, !it.Enabled)
	return it.Enabled, nil
}

// SetAllEnabled enables or disables every visible entry and reports whether
// any changed.
func (l *List[T]) SetAllEnabled(enabled bool) (bool, error) {
	if err := l.guard("set all enabled"); err != nil {
		return false, err
	}
	changed := false
	for i, it := range l.scope.Visible() {
		changed = l.changeEnabled(it, i, enabled) || changed
	}
	return changed, nil
}

// EnabledCount returns the number of visible enabled entries.
func (l *List[T]) EnabledCount() int {
	return len(l.indicesWhere(func(it *domain.Item[T]) bool { return it.Enabled }))
}

// DisabledCount returns the number of visible disabled entries.
func (l *List[T]) DisabledCount() int { return l.scope.Len() - l.EnabledCount() }

func (l *List[T]) changeEnabled(it *domain.Item[T], index int, enabled bool) bool {
	if it.Enabled == enabled {
		return false
	}
	it.Enabled = enabled
	kind := domain.EventDisabled
	if enabled {
		kind = domain.EventEnabled
	}
	l.emit(domain.Event[T]{Kind: kind, Data: it.Data, Index: index})
	l.host.itemChanged(index)
	if !enabled && it.Selected {
		l.deselectItem(it, index)
		l.adaptAround(index)
	}
	return true
}
