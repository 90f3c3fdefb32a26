package adapter

import (
	"adaptercore/internal/codec"
	"adaptercore/pkg/domain"
)

// Save encodes the whole structure: groups with their flags, expansion,
// duplicate policy and children, every filter and remembered sort, and the
// configuration.
func (e *Expandable[G, C]) Save() ([]byte, error) {
	all := e.groups.All()
	groups := make([]codec.Group[G, C], len(all))
	for i, g := range all {
		groups[i] = codec.Group[G, C]{
			Item:       codec.NewItem(g.data, g.flags),
			Expanded:   g.expanded,
			Duplicates: int(g.duplicates),
			Children:   saveScope(g.children),
		}
	}
	c := e.cfg
	snap := codec.ExpandableSnapshot[G, C]{
		Settings: codec.GroupSettings{
			AllowDuplicateGroups:    c.AllowDuplicateGroups,
			AllowDuplicateChildren:  c.AllowDuplicateChildren,
			UniqueChildrenGlobally:  c.UniqueChildrenGlobally,
			NumberOfStates:          c.NumberOfStates,
			ChoiceMode:              c.ChoiceMode.String(),
			SelectionScope:          c.SelectionScope.String(),
			AdaptSelection:          c.AdaptSelection,
			NotifyOnChange:          c.NotifyOnChange,
			ChildEnableFollowsGroup: c.ChildEnableFollowsGroup,
			ChildStateFollowsGroup:  c.ChildStateFollowsGroup,
			FilterEmptyGroups:       c.FilterEmptyGroups,
		},
		Groups:  groups,
		Filters: saveFilters(e.groups),
		Sort:    saveSort(e.groups),
	}
	return codec.Encode(codec.KindExpandable, snap)
}

// Restore replaces the whole structure with the snapshot in blob without
// notifying listeners. On failure nothing changes and the error wraps
// domain.ErrInvalidSnapshot.
func (e *Expandable[G, C]) Restore(blob []byte, groupOpts RestoreOptions[G], childOpts RestoreOptions[C]) error {
	if err := e.guard("restore"); err != nil {
		return err
	}
	if err := e.restore(blob, groupOpts, childOpts); err != nil {
		e.cfg.Logger.Warn("restore failed", "error", err)
		return err
	}
	e.host.structureChanged()
	return nil
}

func (e *Expandable[G, C]) restore(blob []byte, groupOpts RestoreOptions[G], childOpts RestoreOptions[C]) error {
	var snap codec.ExpandableSnapshot[G, C]
	if err := codec.Decode(blob, codec.KindExpandable, &snap); err != nil {
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
	scope, err := domain.ParseSelectionScope(set.SelectionScope)
	if err != nil {
		return invalid("%v", err)
	}
	groups := newGroupScope[G, C](set.AllowDuplicateGroups)
	selected := 0
	seen := make(map[C]struct{})
	for _, pg := range snap.Groups {
		f := pg.Flags()
		if err := checkFlags(pg.Data, f, set.NumberOfStates); err != nil {
			return err
		}
		policy := domain.DuplicatePolicy(pg.Duplicates)
		if policy < domain.DuplicatesInherit || policy > domain.DuplicatesDeny {
			return invalid("duplicate policy %d", pg.Duplicates)
		}
		children, n, err := restoreScope(pg.Children, true, set.NumberOfStates, childOpts)
		if err != nil {
			return err
		}
		local := make(map[C]struct{})
		for _, it := range children.All() {
			if _, dup := local[it.Data]; dup && !policy.Resolve(set.AllowDuplicateChildren) {
				return invalid("duplicate child %v", it.Data)
			}
			if _, dup := seen[it.Data]; dup && set.UniqueChildrenGlobally {
				return invalid("child %v exists in another group", it.Data)
			}
			local[it.Data] = struct{}{}
		}
		for d := range local {
			seen[d] = struct{}{}
		}
		g := &group[G, C]{data: pg.Data, flags: f, expanded: pg.Expanded, duplicates: policy, children: children}
		if groups.Store().Add(g) < 0 {
			return invalid("duplicate group %v", pg.Data)
		}
		if f.Selected {
			n++
		}
		selected += n
	}
	if (mode == domain.ChoiceNone && selected > 0) || (mode == domain.ChoiceSingle && selected > 1) {
		return invalid("%d selected entries under choice mode %s", selected, mode)
	}
	if set.FilterEmptyGroups {
		_ = groups.SetGate(nonEmptyGroup[G, C])
	}
	if err := restoreView(groups, snap.Filters, snap.Sort, groupOpts); err != nil {
		return err
	}
	e.cfg.AllowDuplicateGroups = set.AllowDuplicateGroups
	e.cfg.AllowDuplicateChildren = set.AllowDuplicateChildren
	e.cfg.UniqueChildrenGlobally = set.UniqueChildrenGlobally
	e.cfg.NumberOfStates = set.NumberOfStates
	e.cfg.ChoiceMode = mode
	e.cfg.SelectionScope = scope
	e.cfg.AdaptSelection = set.AdaptSelection
	e.cfg.NotifyOnChange = set.NotifyOnChange
	e.cfg.ChildEnableFollowsGroup = set.ChildEnableFollowsGroup
	e.cfg.ChildStateFollowsGroup = set.ChildStateFollowsGroup
	e.cfg.FilterEmptyGroups = set.FilterEmptyGroups
	for _, g := range e.groups.All() {
		g.children.Invalidate()
	}
	e.groups.Load(groups)
	return nil
}
