package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// ChoiceMode returns the current choice mode.
func (l *List[T]) ChoiceMode() domain.ChoiceMode { return l.cfg.ChoiceMode }

// SetChoiceMode switches the choice mode. Switching to ChoiceNone clears
// every selection; switching to ChoiceSingle keeps only the first selected
// entry in store order.
func (l *List[T]) SetChoiceMode(m domain.ChoiceMode) error {
	if err := l.guard("set choice mode"); err != nil {
		return err
	}
	l.cfg.ChoiceMode = m
	keep := m == domain.ChoiceSingle
	if m == domain.ChoiceMultiple {
		return nil
	}
	for _, it := range l.scope.All() {
		if !it.Selected {
			continue
		}
		if keep {
			keep = false
			continue
		}
		l.deselectItem(it, l.scope.VisibleIndex(it))
	}
	return nil
}

// AdaptSelection reports whether selection is adapted automatically.
func (l *List[T]) AdaptSelection() bool { return l.cfg.AdaptSelection }

// SetAdaptSelection toggles automatic selection adaption.
func (l *List[T]) SetAdaptSelection(on bool) { l.cfg.AdaptSelection = on }

// IsSelected reports whether the visible entry at index is selected.
func (l *List[T]) IsSelected(index int) (bool, error) {
	it, err := l.at("is selected", index)
	if err != nil {
		return false, err
	}
	return it.Selected, nil
}

func (l *List[T]) checkChoice(op string) error {
	if l.cfg.ChoiceMode == domain.ChoiceNone {
		return fmt.Errorf("%s: choice mode %s: %w", op, l.cfg.ChoiceMode, domain.ErrIllegalState)
	}
	return nil
}

// SetSelected selects or deselects the visible entry at index and reports
// whether it changed. Disabled entries cannot be selected. In single choice
// mode selecting an entry deselects the previously selected one first.
func (l *List[T]) SetSelected(index int, selected bool) (bool, error) {
	if err := l.guard("set selected"); err != nil {
		return false, err
	}
	if err := l.checkChoice("set selected"); err != nil {
		return false, err
	}
	it, err := l.at("set selected", index)
	if err != nil {
		return false, err
	}
	if selected {
		return l.selectItem(it, index), nil
	}
	return l.deselectItem(it, index), nil
}

// TriggerSelection toggles the selection of the visible entry at index and
// reports whether it changed.
func (l *List[T]) TriggerSelection(index int) (bool, error) {
	if err := l.guard("trigger selection"); err != nil {
		return false, err
	}
	if err := l.checkChoice("trigger selection"); err != nil {
		return false, err
	}
	it, err := l.at("trigger selection", index)
	if err != nil {
		return false, err
	}
	if it.Selected {
		return l.deselectItem(it, index), nil
	}
	return l.selectItem(it, index), nil
}

// SetAllSelected selects or deselects every visible enabled entry. Selecting
// all is an illegal state in single choice mode unless at most one entry is
// visible.
func (l *List[T]) SetAllSelected(selected bool) (bool, error) {
	if err := l.guard("set all selected"); err != nil {
		return false, err
	}
	if err := l.checkChoice("set all selected"); err != nil {
		return false, err
	}
	if selected && l.cfg.ChoiceMode == domain.ChoiceSingle && l.scope.Len() > 1 {
		return false, fmt.Errorf("set all selected: choice mode %s: %w", l.cfg.ChoiceMode, domain.ErrIllegalState)
	}
	changed := false
	for i, it := range l.scope.Visible() {
		if selected {
			changed = l.selectItem(it, i) || changed
		} else {
			changed = l.deselectItem(it, i) || changed
		}
	}
	return changed, nil
}

func (l *List[T]) selectItem(it *domain.Item[T], index int) bool {
	if it.Selected {
		return false
	}
	if !it.Enabled {
		l.cfg.Logger.Debug("selection of disabled entry ignored", "data", it.Data)
		return false
	}
	if l.cfg.ChoiceMode == domain.ChoiceSingle {
		for _, other := range l.scope.All() {
			if other != it && other.Selected {
				l.deselectItem(other, l.scope.VisibleIndex(other))
			}
		}
	}
	it.Selected = true
	l.emit(domain.Event[T]{Kind: domain.EventSelected, Data: it.Data, Index: index})
	l.host.itemChanged(index)
	return true
}

func (l *List[T]) deselectItem(it *domain.Item[T], index int) bool {
	if !it.Selected {
		return false
	}
	it.Selected = false
	l.emit(domain.Event[T]{Kind: domain.EventUnselected, Data: it.Data, Index: index})
	l.host.itemChanged(index)
	return true
}

func (l *List[T]) adapting() bool {
	return l.cfg.ChoiceMode == domain.ChoiceSingle && l.cfg.AdaptSelection
}

func (l *List[T]) hasSelection() bool {
	return l.scope.Store().IndexFunc(func(it *domain.Item[T]) bool { return it.Selected }) >= 0
}

// adaptAround selects the enabled visible entry nearest to index when
// adaption is on and nothing is selected.
func (l *List[T]) adaptAround(index int) {
	if !l.adapting() || l.hasSelection() {
		return
	}
	vis := l.scope.Visible()
	if index < 0 {
		index = 0
	}
	for d := 0; d <= len(vis); d++ {
		for _, i := range [2]int{index + d, index - d} {
			if i >= 0 && i < len(vis) && vis[i].Enabled {
				l.selectItem(vis[i], i)
				return
			}
		}
	}
}

func (l *List[T]) indicesWhere(pred func(*domain.Item[T]) bool) []int {
	var out []int
	for i, it := range l.scope.Visible() {
		if pred(it) {
			out = append(out, i)
		}
	}
	return out
}

func (l *List[T]) valuesWhere(pred func(*domain.Item[T]) bool) []T {
	var out []T
	for _, it := range l.scope.Visible() {
		if pred(it) {
			out = append(out, it.Data)
		}
	}
	return out
}

func (l *List[T]) firstWhere(pred func(*domain.Item[T]) bool) int {
	for i, it := range l.scope.Visible() {
		if pred(it) {
			return i
		}
	}
	return -1
}

func (l *List[T]) lastWhere(pred func(*domain.Item[T]) bool) int {
	vis := l.scope.Visible()
	for i := len(vis) - 1; i >= 0; i-- {
		if pred(vis[i]) {
			return i
		}
	}
	return -1
}

func (l *List[T]) valueAt(index int) (T, bool) {
	if index < 0 {
		var zero T
		return zero, false
	}
	it, _ := l.scope.At(index)
	return it.Data, true
}

func isSelected[T any](it *domain.Item[T]) bool   { return it.Selected }
func isUnselected[T any](it *domain.Item[T]) bool { return !it.Selected }

// SelectedIndex returns the visible index of the first selected entry, or -1.
func (l *List[T]) SelectedIndex() int { return l.firstWhere(isSelected[T]) }

// LastSelectedIndex returns the visible index of the last selected entry, or -1.
func (l *List[T]) LastSelectedIndex() int { return l.lastWhere(isSelected[T]) }

// UnselectedIndex returns the visible index of the first unselected entry, or -1.
func (l *List[T]) UnselectedIndex() int { return l.firstWhere(isUnselected[T]) }

// LastUnselectedIndex returns the visible index of the last unselected entry, or -1.
func (l *List[T]) LastUnselectedIndex() int { return l.lastWhere(isUnselected[T]) }

// SelectedItem returns the data of the first selected entry.
func (l *List[T]) SelectedItem() (T, bool) { return l.valueAt(l.SelectedIndex()) }

// LastSelectedItem returns the data of the last selected entry.
func (l *List[T]) LastSelectedItem() (T, bool) { return l.valueAt(l.LastSelectedIndex()) }

// UnselectedItem returns the data of the first unselected entry.
func (l *List[T]) UnselectedItem() (T, bool) { return l.valueAt(l.UnselectedIndex()) }

// LastUnselectedItem returns the data of the last unselected entry.
func (l *List[T]) LastUnselectedItem() (T, bool) { return l.valueAt(l.LastUnselectedIndex()) }

// SelectedIndices returns the visible indices of selected entries.
func (l *List[T]) SelectedIndices() []int { return l.indicesWhere(isSelected[T]) }

// UnselectedIndices returns the visible indices of unselected entries.
func (l *List[T]) UnselectedIndices() []int { return l.indicesWhere(isUnselected[T]) }

// SelectedItems returns the data of selected visible entries.
func (l *List[T]) SelectedItems() []T { return l.valuesWhere(isSelected[T]) }

// UnselectedItems returns the data of unselected visible entries.
func (l *List[T]) UnselectedItems() []T { return l.valuesWhere(isUnselected[T]) }

// SelectedCount returns the number of selected visible entries.
func (l *List[T]) SelectedCount() int { return len(l.SelectedIndices()) }

// UnselectedCount returns the number of unselected visible entries.
func (l *List[T]) UnselectedCount() int { return l.scope.Len() - l.SelectedCount() }
