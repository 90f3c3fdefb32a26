package adapter

import "adaptercore/pkg/domain"

// AddGroup appends a group holding data. It returns the visible index,
// Rejected under the group duplicate rule, or Hidden when the group does not
// pass the group filters.
func (e *Expandable[G, C]) AddGroup(data G) (int, error) {
	return e.insertGroup("add group", e.groups.Len(), data)
}

// InsertGroup stores a group before the visible group at gi and reports
// false when the duplicate rule refused it.
func (e *Expandable[G, C]) InsertGroup(gi int, data G) (bool, error) {
	pos, err := e.insertGroup("insert group", gi, data)
	if err != nil {
		return false, err
	}
	return pos != Rejected, nil
}

func (e *Expandable[G, C]) insertGroup(op string, gi int, data G) (int, error) {
	if err := e.guard(op); err != nil {
		return Rejected, err
	}
	if err := checkData(op, data); err != nil {
		return Rejected, err
	}
	if err := domain.CheckPosition(op, gi, e.groups.Len()); err != nil {
		return Rejected, err
	}
	return e.storeGroup(gi, newGroup[G, C](data))
}

func (e *Expandable[G, C]) storeGroup(gi int, g *group[G, C]) (int, error) {
	pos, err := e.groups.Insert(gi, g)
	if err != nil {
		return Rejected, err
	}
	if pos == Rejected {
		e.cfg.Logger.Debug("duplicate group rejected", "group", g.data)
		return Rejected, nil
	}
	e.groupAdded(g, pos)
	return pos, nil
}

func (e *Expandable[G, C]) groupAdded(g *group[G, C], pos int) {
	e.emitGroup(domain.EventAdded, g, pos)
	e.host.structureChanged()
	if pos >= 0 && e.adapting() && e.cfg.SelectionScope.AllowsGroups() && !e.hasSelection() && g.flags.Enabled {
		e.selectGroup(g, pos)
	}
}

// AddAllGroups appends a group per element of data with partial success
// semantics: it reports true only when every group was stored.
func (e *Expandable[G, C]) AddAllGroups(data []G) (bool, error) {
	return e.InsertAllGroups(e.groups.Len(), data)
}

// InsertAllGroups inserts groups in order before the visible group at gi.
func (e *Expandable[G, C]) InsertAllGroups(gi int, data []G) (bool, error) {
	if err := e.guard("insert all groups"); err != nil {
		return false, err
	}
	if err := domain.CheckPosition("insert all groups", gi, e.groups.Len()); err != nil {
		return false, err
	}
	for _, d := range data {
		if err := checkData("insert all groups", d); err != nil {
			return false, err
		}
	}
	all := true
	at := gi
	for _, d := range data {
		pos, err := e.storeGroup(at, newGroup[G, C](d))
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

// AddGroupSorted inserts a group at the position given by cmp or by the
// remembered group sort.
func (e *Expandable[G, C]) AddGroupSorted(data G, cmp domain.Comparator[G]) (int, error) {
	if err := e.guard("add group sorted"); err != nil {
		return Rejected, err
	}
	if err := checkData("add group sorted", data); err != nil {
		return Rejected, err
	}
	g := newGroup[G, C](data)
	pos, err := e.groups.InsertSorted(g, cmp)
	if err != nil {
		e.cfg.Logger.Warn("sorted group insertion failed", "error", err)
		return Rejected, err
	}
	if pos == Rejected {
		e.cfg.Logger.Debug("duplicate group rejected", "group", data)
		return Rejected, nil
	}
	e.groupAdded(g, pos)
	return pos, nil
}

// ReplaceGroup swaps the visible group at gi for a fresh, empty group
// holding data. The children of the previous group are removed first.
func (e *Expandable[G, C]) ReplaceGroup(gi int, data G) (old G, ok bool, err error) {
	if err := e.guard("replace group"); err != nil {
		return old, false, err
	}
	if err := checkData("replace group", data); err != nil {
		return old, false, err
	}
	prev, err := e.groupAt("replace group", gi)
	if err != nil {
		return old, false, err
	}
	if !e.cfg.AllowDuplicateGroups {
		for _, g := range e.groups.All() {
			if g != prev && g.data == data {
				e.cfg.Logger.Debug("duplicate group rejected", "group", data)
				return old, false, nil
			}
		}
	}
	lost := e.clearChildren(prev, gi)
	g := newGroup[G, C](data)
	_, pos, err := e.groups.Replace(gi, g)
	if err != nil {
		return old, false, err
	}
	e.emitGroup(domain.EventRemoved, prev, gi)
	e.emitGroup(domain.EventAdded, g, pos)
	e.host.structureChanged()
	if lost || prev.flags.Selected {
		e.adaptAfterLoss(gi, -1, false)
	}
	return prev.data, true, nil
}

// RemoveGroup removes the visible group at gi together with its children.
// Children are removed and reported first, then the group.
func (e *Expandable[G, C]) RemoveGroup(gi int) (G, error) {
	var zero G
	if err := e.guard("remove group"); err != nil {
		return zero, err
	}
	g, err := e.groupAt("remove group", gi)
	if err != nil {
		return zero, err
	}
	e.removeGroup(g)
	return g.data, nil
}

// RemoveGroupValue removes the first stored group holding data, preferring
// visible groups. It reports false when none holds data.
func (e *Expandable[G, C]) RemoveGroupValue(data G) (bool, error) {
	if err := e.guard("remove group"); err != nil {
		return false, err
	}
	if err := checkData("remove group", data); err != nil {
		return false, err
	}
	g, err := e.groupByValue("remove group", data)
	if err != nil {
		return false, nil
	}
	e.removeGroup(g)
	return true, nil
}

func (e *Expandable[G, C]) removeGroup(g *group[G, C]) {
	gi := e.groupIndex(g)
	lost := e.clearChildren(g, gi)
	index, ok := e.groups.RemoveEntry(g)
	if !ok {
		return
	}
	e.emitGroup(domain.EventRemoved, g, index)
	e.host.structureChanged()
	if lost || g.flags.Selected {
		e.adaptAfterLoss(max(index, 0), -1, false)
	}
}

// clearChildren removes every child of g, last to first, and reports whether
// a selected child was among them.
func (e *Expandable[G, C]) clearChildren(g *group[G, C], gi int) bool {
	lost := false
	for _, r := range g.children.Clear() {
		lost = lost || r.Entry.Selected
		e.emitChild(domain.EventRemoved, g, gi, r.Entry, r.Index)
	}
	return lost
}

// RemoveAllGroups removes one group per element of data and reports true only
// when every element was found.
func (e *Expandable[G, C]) RemoveAllGroups(data []G) (bool, error) {
	if err := e.guard("remove all groups"); err != nil {
		return false, err
	}
	all := true
	for _, d := range data {
		g, err := e.groupByValue("remove all groups", d)
		if err != nil {
			all = false
			continue
		}
		e.removeGroup(g)
	}
	return all, nil
}

// RetainAllGroups removes every stored group whose data is not in keep.
func (e *Expandable[G, C]) RetainAllGroups(keep []G) (bool, error) {
	if err := e.guard("retain all groups"); err != nil {
		return false, err
	}
	set := make(map[G]struct{}, len(keep))
	for _, d := range keep {
		set[d] = struct{}{}
	}
	all := e.groups.All()
	changed := false
	for i := len(all) - 1; i >= 0; i-- {
		if _, ok := set[all[i].data]; !ok {
			e.removeGroup(all[i])
			changed = true
		}
	}
	return changed, nil
}

// ClearGroups removes every group, last to first, each with its children.
func (e *Expandable[G, C]) ClearGroups() error {
	if err := e.guard("clear groups"); err != nil {
		return err
	}
	all := e.groups.All()
	for i := len(all) - 1; i >= 0; i-- {
		e.removeGroup(all[i])
	}
	return nil
}

// childAllowed applies the local and the global duplicate rules. except is
// ignored when looking for duplicates.
func (e *Expandable[G, C]) childAllowed(g *group[G, C], data C, except *domain.Item[C]) bool {
	dup := func(h *group[G, C]) bool {
		return h.children.Store().IndexFunc(func(it *domain.Item[C]) bool {
			return it != except && it.Data == data
		}) >= 0
	}
	if !g.duplicates.Resolve(e.cfg.AllowDuplicateChildren) && dup(g) {
		return false
	}
	if e.cfg.UniqueChildrenGlobally {
		for _, h := range e.groups.All() {
			if dup(h) {
				return false
			}
		}
	}
	return true
}

// AddChild appends a child holding data to the visible group at gi. It
// returns the visible child index, Rejected under the duplicate rules or
// Hidden when the child does not pass the group's child filters.
func (e *Expandable[G, C]) AddChild(gi int, data C) (int, error) {
	if err := e.guard("add child"); err != nil {
		return Rejected, err
	}
	g, err := e.groupAt("add child", gi)
	if err != nil {
		return Rejected, err
	}
	return e.insertChild("add child", g, g.children.Len(), data)
}

// AddChildToGroup appends a child to the first stored group holding group,
// visible or not.
func (e *Expandable[G, C]) AddChildToGroup(group G, data C) (int, error) {
	if err := e.guard("add child"); err != nil {
		return Rejected, err
	}
	g, err := e.groupByValue("add child", group)
	if err != nil {
		return Rejected, err
	}
	return e.insertChild("add child", g, g.children.Len(), data)
}

// InsertChild stores a child before visible child ci of group gi and reports
// false when a duplicate rule refused it.
func (e *Expandable[G, C]) InsertChild(gi, ci int, data C) (bool, error) {
	if err := e.guard("insert child"); err != nil {
		return false, err
	}
	g, err := e.groupAt("insert child", gi)
	if err != nil {
		return false, err
	}
	pos, err := e.insertChild("insert child", g, ci, data)
	if err != nil {
		return false, err
	}
	return pos != Rejected, nil
}

func (e *Expandable[G, C]) insertChild(op string, g *group[G, C], ci int, data C) (int, error) {
	if err := checkData(op, data); err != nil {
		return Rejected, err
	}
	if err := domain.CheckPosition(op, ci, g.children.Len()); err != nil {
		return Rejected, err
	}
	return e.storeChild(g, ci, domain.NewItem(data))
}

func (e *Expandable[G, C]) storeChild(g *group[G, C], ci int, it *domain.Item[C]) (int, error) {
	if !e.childAllowed(g, it.Data, nil) {
		e.cfg.Logger.Debug("duplicate child rejected", "group", g.data, "child", it.Data)
		return Rejected, nil
	}
	pos, err := g.children.Insert(ci, it)
	if err != nil {
		return Rejected, err
	}
	e.childAdded(g, it, pos)
	return pos, nil
}

func (e *Expandable[G, C]) childAdded(g *group[G, C], it *domain.Item[C], pos int) {
	e.refreshGroups()
	gi := e.groupIndex(g)
	e.emitChild(domain.EventAdded, g, gi, it, pos)
	e.host.structureChanged()
	if e.cfg.ChildEnableFollowsGroup && !g.flags.Enabled {
		e.changeChildEnabled(g, gi, it, pos, false)
	}
	if e.cfg.ChildStateFollowsGroup && g.flags.State != it.State {
		e.changeChildState(g, gi, it, pos, g.flags.State)
	}
	if pos >= 0 && gi >= 0 && e.adapting() && e.cfg.SelectionScope.AllowsChildren() && !e.hasSelection() && it.Enabled {
		e.selectChild(g, gi, it, pos)
	}
}

// AddAllChildren appends children to group gi with partial success
// semantics.
func (e *Expandable[G, C]) AddAllChildren(gi int, data []C) (bool, error) {
	g, err := e.groupAt("add all children", gi)
	if err != nil {
		return false, err
	}
	return e.InsertAllChildren(gi, g.children.Len(), data)
}

// InsertAllChildren inserts children in order before visible child ci of
// group gi. It reports true only when every child was stored.
func (e *Expandable[G, C]) InsertAllChildren(gi, ci int, data []C) (bool, error) {
	if err := e.guard("insert all children"); err != nil {
		return false, err
	}
	g, err := e.groupAt("insert all children", gi)
	if err != nil {
		return false, err
	}
	if err := domain.CheckPosition("insert all children", ci, g.children.Len()); err != nil {
		return false, err
	}
	for _, d := range data {
		if err := checkData("insert all children", d); err != nil {
			return false, err
		}
	}
	all := true
	at := ci
	for _, d := range data {
		pos, err := e.storeChild(g, at, domain.NewItem(d))
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

// AddChildSorted inserts a child into group gi at the position given by cmp
// or by the group's remembered child sort.
func (e *Expandable[G, C]) AddChildSorted(gi int, data C, cmp domain.Comparator[C]) (int, error) {
	if err := e.guard("add child sorted"); err != nil {
		return Rejected, err
	}
	g, err := e.groupAt("add child sorted", gi)
	if err != nil {
		return Rejected, err
	}
	if err := checkData("add child sorted", data); err != nil {
		return Rejected, err
	}
	if !e.childAllowed(g, data, nil) {
		e.cfg.Logger.Debug("duplicate child rejected", "group", g.data, "child", data)
		return Rejected, nil
	}
	it := domain.NewItem(data)
	pos, err := g.children.InsertSorted(it, cmp)
	if err != nil {
		e.cfg.Logger.Warn("sorted child insertion failed", "error", err)
		return Rejected, err
	}
	e.childAdded(g, it, pos)
	return pos, nil
}

// ReplaceChild swaps visible child ci of group gi for a fresh child holding
// data and returns the previous data; ok is false when a duplicate rule
// refused data.
func (e *Expandable[G, C]) ReplaceChild(gi, ci int, data C) (old C, ok bool, err error) {
	if err := e.guard("replace child"); err != nil {
		return old, false, err
	}
	if err := checkData("replace child", data); err != nil {
		return old, false, err
	}
	g, prev, err := e.childAt("replace child", gi, ci)
	if err != nil {
		return old, false, err
	}
	if !e.childAllowed(g, data, prev) {
		e.cfg.Logger.Debug("duplicate child rejected", "group", g.data, "child", data)
		return old, false, nil
	}
	it := domain.NewItem(data)
	if _, _, err := g.children.Replace(ci, it); err != nil {
		return old, false, err
	}
	e.refreshGroups()
	gi2 := e.groupIndex(g)
	e.emitChild(domain.EventRemoved, g, gi2, prev, ci)
	e.emitChild(domain.EventAdded, g, gi2, it, g.children.VisibleIndex(it))
	e.host.structureChanged()
	if prev.Selected {
		e.adaptAfterLoss(gi, ci, true)
	}
	return prev.Data, true, nil
}

// RemoveChild removes visible child ci of group gi.
func (e *Expandable[G, C]) RemoveChild(gi, ci int) (C, error) {
	var zero C
	if err := e.guard("remove child"); err != nil {
		return zero, err
	}
	g, it, err := e.childAt("remove child", gi, ci)
	if err != nil {
		return zero, err
	}
	e.removeChild(g, it)
	return it.Data, nil
}

// RemoveChildValue removes the first child of group gi holding data and
// reports whether one was found.
func (e *Expandable[G, C]) RemoveChildValue(gi int, data C) (bool, error) {
	if err := e.guard("remove child"); err != nil {
		return false, err
	}
	g, err := e.groupAt("remove child", gi)
	if err != nil {
		return false, err
	}
	return e.removeChildValue(g, data), nil
}

func (e *Expandable[G, C]) findChild(g *group[G, C], data C) *domain.Item[C] {
	if i := g.children.IndexOf(data); i >= 0 {
		it, _ := g.children.At(i)
		return it
	}
	st := g.children.Store()
	if p := st.IndexFunc(func(it *domain.Item[C]) bool { return it.Data == data }); p >= 0 {
		it, _ := st.At(p)
		return it
	}
	return nil
}

func (e *Expandable[G, C]) removeChildValue(g *group[G, C], data C) bool {
	it := e.findChild(g, data)
	if it == nil {
		return false
	}
	e.removeChild(g, it)
	return true
}

func (e *Expandable[G, C]) removeChild(g *group[G, C], it *domain.Item[C]) {
	ci, ok := g.children.RemoveEntry(it)
	if !ok {
		return
	}
	before := e.groupIndex(g)
	e.refreshGroups()
	e.emitChild(domain.EventRemoved, g, e.groupIndex(g), it, ci)
	e.host.structureChanged()
	if it.Selected {
		e.adaptAfterLoss(max(before, 0), max(ci, 0), true)
	}
}

// RemoveAllChildren removes one child of group gi per element of data and
// reports true only when every element was found.
func (e *Expandable[G, C]) RemoveAllChildren(gi int, data []C) (bool, error) {
	if err := e.guard("remove all children"); err != nil {
		return false, err
	}
	g, err := e.groupAt("remove all children", gi)
	if err != nil {
		return false, err
	}
	all := true
	for _, d := range data {
		if !e.removeChildValue(g, d) {
			all = false
		}
	}
	return all, nil
}

// RetainAllChildren removes every child of group gi whose data is not in keep.
func (e *Expandable[G, C]) RetainAllChildren(gi int, keep []C) (bool, error) {
	if err := e.guard("retain all children"); err != nil {
		return false, err
	}
	g, err := e.groupAt("retain all children", gi)
	if err != nil {
		return false, err
	}
	set := make(map[C]struct{}, len(keep))
	for _, d := range keep {
		set[d] = struct{}{}
	}
	all := g.children.All()
	changed := false
	for i := len(all) - 1; i >= 0; i-- {
		if _, ok := set[all[i].Data]; !ok {
			e.removeChild(g, all[i])
			changed = true
		}
	}
	return changed, nil
}

// RemoveChildFromAllGroups removes every child holding data from every stored
// group and returns how many were removed.
func (e *Expandable[G, C]) RemoveChildFromAllGroups(data C) (int, error) {
	if err := e.guard("remove child everywhere"); err != nil {
		return 0, err
	}
	n := 0
	for _, g := range e.groups.All() {
		for e.removeChildValue(g, data) {
			n++
		}
	}
	return n, nil
}

// ClearChildren removes every child of group gi, last to first.
func (e *Expandable[G, C]) ClearChildren(gi int) error {
	if err := e.guard("clear children"); err != nil {
		return err
	}
	g, err := e.groupAt("clear children", gi)
	if err != nil {
		return err
	}
	lost := e.clearChildren(g, gi)
	e.refreshGroups()
	e.host.structureChanged()
	if lost {
		e.adaptAfterLoss(gi, 0, true)
	}
	return nil
}
