package adapter

import (
	"fmt"

	"adaptercore/internal/collection"
	"adaptercore/internal/listener"
	"adaptercore/pkg/domain"
)

// group is one entry of the group list. It exclusively owns its children.
type group[G, C comparable] struct {
	data       G
	flags      domain.Flags
	expanded   bool
	duplicates domain.DuplicatePolicy
	children   *itemScope[C]
}

func (g *group[G, C]) Value() G                  { return g.data }
func (g *group[G, C]) Attributes() *domain.Flags { return &g.flags }

func newGroup[G, C comparable](data G) *group[G, C] {
	return &group[G, C]{
		data:     data,
		flags:    domain.Flags{Enabled: true},
		children: newItemScope[C](true),
	}
}

type groupScope[G, C comparable] = collection.Scope[*group[G, C], G]

// ChildPosition addresses a child by visible group and child index.
type ChildPosition struct {
	Group int
	Child int
}

// Expandable is a two level adapter: a list of groups of type G, each owning
// a list of children of type C. Group indices address the visible groups,
// child indices the visible children of one group.
type Expandable[G, C comparable] struct {
	cfg      GroupConfig
	groups   *groupScope[G, C]
	hub      *listener.Hub[domain.GroupEvent[G, C]]
	host     attachment
	renderer GroupRenderer[G, C]
}

// NewExpandable returns an empty expandable configured by opts on top of
// DefaultGroupConfig.
func NewExpandable[G, C comparable](opts ...GroupOption) *Expandable[G, C] {
	cfg := DefaultGroupConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	e := &Expandable[G, C]{
		cfg:    cfg,
		groups: newGroupScope[G, C](cfg.AllowDuplicateGroups),
		hub:    listener.New[domain.GroupEvent[G, C]](),
	}
	e.host.notify = &e.cfg.NotifyOnChange
	if cfg.FilterEmptyGroups {
		_ = e.groups.SetGate(nonEmptyGroup[G, C])
	}
	return e
}

func newGroupScope[G, C comparable](allow bool) *groupScope[G, C] {
	return collection.NewScope[*group[G, C]](equalData[G], allow)
}

// nonEmptyGroup hides groups whose children are all filtered out.
func nonEmptyGroup[G, C comparable](g *group[G, C]) bool {
	return !g.children.HasFilters() || g.children.Len() > 0
}

// Config returns a copy of the current configuration.
func (e *Expandable[G, C]) Config() GroupConfig { return e.cfg }

// SetDuplicateGroups changes the duplicate rule of the group list for future
// insertions.
func (e *Expandable[G, C]) SetDuplicateGroups(allow bool) {
	e.cfg.AllowDuplicateGroups = allow
	e.groups.Store().SetAllowDuplicates(allow)
}

// SetDuplicateChildren changes the default duplicate rule within groups.
func (e *Expandable[G, C]) SetDuplicateChildren(allow bool) { e.cfg.AllowDuplicateChildren = allow }

// SetUniqueChildrenGlobally toggles the adapter wide child uniqueness rule.
func (e *Expandable[G, C]) SetUniqueChildrenGlobally(on bool) { e.cfg.UniqueChildrenGlobally = on }

// GroupDuplicates returns the duplicate policy of the visible group at gi.
func (e *Expandable[G, C]) GroupDuplicates(gi int) (domain.DuplicatePolicy, error) {
	g, err := e.groupAt("group duplicates", gi)
	if err != nil {
		return domain.DuplicatesInherit, err
	}
	return g.duplicates, nil
}

// SetGroupDuplicates overrides the children duplicate rule of the visible
// group at gi.
func (e *Expandable[G, C]) SetGroupDuplicates(gi int, p domain.DuplicatePolicy) error {
	g, err := e.groupAt("set group duplicates", gi)
	if err != nil {
		return err
	}
	g.duplicates = p
	return nil
}

// AddListener registers lis for the given categories, or for every category
// when none is given.
func (e *Expandable[G, C]) AddListener(lis domain.GroupListener[G, C], categories ...domain.Category) (bool, error) {
	if len(categories) == 0 {
		categories = domain.AllCategories
	}
	added := false
	for _, c := range categories {
		ok, err := e.hub.Add(c, lis)
		if err != nil {
			return added, err
		}
		added = added || ok
	}
	return added, nil
}

// RemoveListener unregisters lis from the given categories, or from all.
func (e *Expandable[G, C]) RemoveListener(lis domain.GroupListener[G, C], categories ...domain.Category) bool {
	if len(categories) == 0 {
		categories = domain.AllCategories
	}
	removed := false
	for _, c := range categories {
		removed = e.hub.Remove(c, lis) || removed
	}
	return removed
}

func (e *Expandable[G, C]) emit(ev domain.GroupEvent[G, C]) { e.hub.Dispatch(ev.Kind.Category(), ev) }

func (e *Expandable[G, C]) emitGroup(kind domain.EventKind, g *group[G, C], gi int) {
	e.emit(domain.GroupEvent[G, C]{Kind: kind, Target: domain.TargetGroup, Group: g.data, GroupIndex: gi, ChildIndex: -1})
}

func (e *Expandable[G, C]) emitChild(kind domain.EventKind, g *group[G, C], gi int, it *domain.Item[C], ci int) {
	e.emit(domain.GroupEvent[G, C]{Kind: kind, Target: domain.TargetChild, Group: g.data, GroupIndex: gi, Child: it.Data, ChildIndex: ci, State: it.State})
}

func (e *Expandable[G, C]) guard(op string) error {
	if e.hub.InStructuralDispatch() {
		return fmt.Errorf("%s: %w", op, domain.ErrReentrantMutation)
	}
	return nil
}

func (e *Expandable[G, C]) groupAt(op string, gi int) (*group[G, C], error) {
	if err := domain.CheckIndex(op, gi, e.groups.Len()); err != nil {
		return nil, err
	}
	return e.groups.At(gi)
}

func (e *Expandable[G, C]) childAt(op string, gi, ci int) (*group[G, C], *domain.Item[C], error) {
	g, err := e.groupAt(op, gi)
	if err != nil {
		return nil, nil, err
	}
	if err := domain.CheckIndex(op, ci, g.children.Len()); err != nil {
		return nil, nil, err
	}
	it, err := g.children.At(ci)
	return g, it, err
}

// groupByValue finds the first stored group holding data, visible or not.
func (e *Expandable[G, C]) groupByValue(op string, data G) (*group[G, C], error) {
	if i := e.groups.IndexOf(data); i >= 0 {
		return e.groups.At(i)
	}
	st := e.groups.Store()
	if p := st.IndexFunc(func(g *group[G, C]) bool { return g.data == data }); p >= 0 {
		return st.At(p)
	}
	return nil, domain.NotFoundError{Op: op, Value: data}
}

func (e *Expandable[G, C]) groupIndex(g *group[G, C]) int { return e.groups.VisibleIndex(g) }

// refreshGroups recomputes the visible groups when empty groups are hidden.
func (e *Expandable[G, C]) refreshGroups() {
	if !e.cfg.FilterEmptyGroups {
		return
	}
	if err := e.groups.Refilter(); err != nil {
		e.cfg.Logger.Warn("group refilter failed", "error", err)
	}
}

// GroupCount returns the number of visible groups.
func (e *Expandable[G, C]) GroupCount() int { return e.groups.Len() }

// TotalGroupCount returns the number of stored groups.
func (e *Expandable[G, C]) TotalGroupCount() int { return e.groups.Total() }

// IsEmpty reports whether no group is visible.
func (e *Expandable[G, C]) IsEmpty() bool { return e.groups.Len() == 0 }

// Group returns the data of the visible group at gi.
func (e *Expandable[G, C]) Group(gi int) (G, error) {
	g, err := e.groupAt("group", gi)
	if err != nil {
		var zero G
		return zero, err
	}
	return g.data, nil
}

// GroupIndexOf returns the visible index of the first group holding data, or -1.
func (e *Expandable[G, C]) GroupIndexOf(data G) int { return e.groups.IndexOf(data) }

// LastGroupIndexOf returns the visible index of the last group holding data, or -1.
func (e *Expandable[G, C]) LastGroupIndexOf(data G) int { return e.groups.LastIndexOf(data) }

// ContainsGroup reports whether a group holding data is stored.
func (e *Expandable[G, C]) ContainsGroup(data G) bool { return e.groups.Contains(data) }

// Groups returns the data of the visible groups.
func (e *Expandable[G, C]) Groups() []G { return e.groups.Values() }

// GroupIterator returns a fail-fast iterator over the visible groups.
func (e *Expandable[G, C]) GroupIterator() *Iterator[G] { return e.groups.Iterator() }

// GroupSubList returns a live view of the visible groups in [start, end).
func (e *Expandable[G, C]) GroupSubList(start, end int) (*SubList[G], error) {
	return e.groups.SubList(start, end)
}

// ChildCount returns the number of visible children of group gi.
func (e *Expandable[G, C]) ChildCount(gi int) (int, error) {
	g, err := e.groupAt("child count", gi)
	if err != nil {
		return 0, err
	}
	return g.children.Len(), nil
}

// TotalChildCount returns the number of visible children of visible groups.
func (e *Expandable[G, C]) TotalChildCount() int {
	n := 0
	for _, g := range e.groups.Visible() {
		n += g.children.Len()
	}
	return n
}

// Child returns the data of visible child ci of group gi.
func (e *Expandable[G, C]) Child(gi, ci int) (C, error) {
	_, it, err := e.childAt("child", gi, ci)
	if err != nil {
		var zero C
		return zero, err
	}
	return it.Data, nil
}

// Children returns the data of the visible children of group gi.
func (e *Expandable[G, C]) Children(gi int) ([]C, error) {
	g, err := e.groupAt("children", gi)
	if err != nil {
		return nil, err
	}
	return g.children.Values(), nil
}

// ChildIndexOf returns the visible index of the first child of group gi
// holding data, or -1.
func (e *Expandable[G, C]) ChildIndexOf(gi int, data C) (int, error) {
	g, err := e.groupAt("child index", gi)
	if err != nil {
		return -1, err
	}
	return g.children.IndexOf(data), nil
}

// ContainsChild reports whether group gi stores a child holding data.
func (e *Expandable[G, C]) ContainsChild(gi int, data C) (bool, error) {
	g, err := e.groupAt("contains child", gi)
	if err != nil {
		return false, err
	}
	return g.children.Contains(data), nil
}

// ContainsChildAnywhere reports whether any stored group stores data.
func (e *Expandable[G, C]) ContainsChildAnywhere(data C) bool {
	for _, g := range e.groups.All() {
		if g.children.Contains(data) {
			return true
		}
	}
	return false
}

// ChildIterator returns a fail-fast iterator over the visible children of
// group gi.
func (e *Expandable[G, C]) ChildIterator(gi int) (*Iterator[C], error) {
	g, err := e.groupAt("child iterator", gi)
	if err != nil {
		return nil, err
	}
	return g.children.Iterator(), nil
}

// ChildSubList returns a live view of the visible children of group gi in
// [start, end).
func (e *Expandable[G, C]) ChildSubList(gi, start, end int) (*SubList[C], error) {
	g, err := e.groupAt("child sublist", gi)
	if err != nil {
		return nil, err
	}
	return g.children.SubList(start, end)
}
