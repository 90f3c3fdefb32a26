package adapter_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"adaptercore/pkg/adapter"
	"adaptercore/pkg/domain"
)

type tree = adapter.Expandable[string, word]

func newTree(t *testing.T, layout map[string][]word, order []string, opts ...adapter.GroupOption) *tree {
	t.Helper()
	e := adapter.NewExpandable[string, word](opts...)
	for _, g := range order {
		gi, err := e.AddGroup(g)
		if err != nil || gi < 0 {
			t.Fatalf("add group %s: %d %v", g, gi, err)
		}
		if ok, err := e.AddAllChildren(gi, layout[g]); err != nil || !ok {
			t.Fatalf("add children of %s: %v %v", g, ok, err)
		}
	}
	return e
}

func children(t *testing.T, e *tree, gi int) []word {
	t.Helper()
	out, err := e.Children(gi)
	if err != nil {
		t.Fatalf("children of %d: %v", gi, err)
	}
	return out
}

type treeRenderer struct{}

func (treeRenderer) RenderGroup(data string, st adapter.GroupRenderState) (adapter.ViewHandle, error) {
	return fmt.Sprintf("%s expanded=%t", data, st.Expanded), nil
}

func (treeRenderer) RenderChild(group string, data word, st adapter.ChildRenderState) (adapter.ViewHandle, error) {
	return fmt.Sprintf("%s/%s@%d.%d", group, data, st.GroupIndex, st.Index), nil
}

func (treeRenderer) GroupViewType(string) int { return 0 }
func (treeRenderer) ChildViewType(word) int   { return 0 }
func (treeRenderer) GroupViewTypeCount() int  { return 1 }
func (treeRenderer) ChildViewTypeCount() int  { return 2 }

func TestExpandableRemoveGroupCascades(t *testing.T) {
	e := newTree(t, map[string][]word{"g0": {"x", "y", "z"}, "g1": {"w"}}, []string{"g0", "g1"})
	log := &groupLog[string, word]{}
	if _, err := e.AddListener(log, domain.CategoryStructure); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	before := e.GroupCount() + e.TotalChildCount()
	removed, err := e.RemoveGroup(0)
	if err != nil || removed != "g0" {
		t.Fatalf("remove group: %v %v", removed, err)
	}
	want := []string{
		"removed child g0/z",
		"removed child g0/y",
		"removed child g0/x",
		"removed group g0",
	}
	if got := log.describe(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events %v", got)
	}
	if e.GroupCount() != 1 {
		t.Fatalf("expected one group left, got %d", e.GroupCount())
	}
	if after := e.GroupCount() + e.TotalChildCount(); before-after != 4 {
		t.Fatalf("expected count to drop by 4, dropped %d", before-after)
	}
}

func TestExpandableChildFilterIsReversible(t *testing.T) {
	e := newTree(t, map[string][]word{"g": {"x", "y", "z"}}, []string{"g"})
	hidden, err := e.ApplyChildFilter(0, "y", 0)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	expectValues(t, hidden, []word{"x", "z"})
	expectValues(t, children(t, e, 0), []word{"y"})
	if ok, _ := e.IsChildFilterApplied(0, "y", 0); !ok {
		t.Fatalf("expected filter to be active")
	}
	if ok, err := e.ResetChildFilter(0, "y", 0); err != nil || !ok {
		t.Fatalf("reset: %v %v", ok, err)
	}
	expectValues(t, children(t, e, 0), []word{"x", "y", "z"})
}

func TestExpandableDuplicateRules(t *testing.T) {
	global := newTree(t, map[string][]word{"g0": {"x"}, "g1": nil}, []string{"g0", "g1"},
		adapter.WithUniqueChildrenGlobally(true))
	if ci, err := global.AddChild(1, "x"); err != nil || ci != adapter.Rejected {
		t.Fatalf("expected globally unique child to be rejected, got %d %v", ci, err)
	}
	if ci, err := global.AddChild(0, "x"); err != nil || ci != adapter.Rejected {
		t.Fatalf("expected global rule to reject a local duplicate too, got %d %v", ci, err)
	}

	local := newTree(t, map[string][]word{"g0": {"y"}, "g1": {"y"}}, []string{"g0", "g1"})
	if err := local.SetGroupDuplicates(0, domain.DuplicatesDeny); err != nil {
		t.Fatalf("set group duplicates: %v", err)
	}
	if ci, _ := local.AddChild(0, "y"); ci != adapter.Rejected {
		t.Fatalf("expected local duplicate to be rejected, got %d", ci)
	}
	if ci, _ := local.AddChild(1, "y"); ci != 1 {
		t.Fatalf("expected duplicate in permissive group at 1, got %d", ci)
	}

	groups := adapter.NewExpandable[string, word]()
	if _, err := groups.AddGroup("g"); err != nil {
		t.Fatalf("add group: %v", err)
	}
	if gi, _ := groups.AddGroup("g"); gi != adapter.Rejected {
		t.Fatalf("expected duplicate group to be rejected, got %d", gi)
	}
}

func TestExpandableSingleChoiceSpansLevels(t *testing.T) {
	e := newTree(t, map[string][]word{"g0": {"a"}, "g1": {"b", "c"}}, []string{"g0", "g1"},
		adapter.WithGroupChoice(domain.ChoiceSingle, domain.ScopeGroupsAndChildren))
	log := &groupLog[string, word]{}
	if _, err := e.AddListener(log, domain.CategorySelection); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	if ok, err := e.SetGroupSelected(0, true); err != nil || !ok {
		t.Fatalf("select group: %v %v", ok, err)
	}
	if ok, err := e.SetChildSelected(1, 1, true); err != nil || !ok {
		t.Fatalf("select child: %v %v", ok, err)
	}
	want := []string{"selected group g0", "unselected group g0", "selected child g1/c"}
	if got := log.describe(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events %v", got)
	}
	if e.SelectedGroupCount() != 0 || e.SelectedChildCount() != 1 {
		t.Fatalf("unexpected selection %d groups %d children", e.SelectedGroupCount(), e.SelectedChildCount())
	}
	pos := e.SelectedChildPositions()
	if len(pos) != 1 || pos[0] != (adapter.ChildPosition{Group: 1, Child: 1}) {
		t.Fatalf("unexpected positions %v", pos)
	}
	if _, err := e.TriggerChildSelection(1, 0); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if sel, _ := e.SelectedChildren(1); !slices.Equal(sel, []word{"b"}) {
		t.Fatalf("expected b to take over, got %v", sel)
	}
}

func TestExpandableSelectionScope(t *testing.T) {
	e := newTree(t, map[string][]word{"g": {"a"}}, []string{"g"},
		adapter.WithGroupChoice(domain.ChoiceMultiple, domain.ScopeGroupsOnly))
	if _, err := e.SetChildSelected(0, 0, true); !errors.Is(err, domain.ErrIllegalState) {
		t.Fatalf("expected child selection to be refused, got %v", err)
	}
	if ok, err := e.SetGroupSelected(0, true); err != nil || !ok {
		t.Fatalf("select group: %v %v", ok, err)
	}
	if err := e.SetChoiceMode(domain.ChoiceMultiple, domain.ScopeChildrenOnly); err != nil {
		t.Fatalf("switch scope: %v", err)
	}
	if e.SelectedGroupCount() != 0 {
		t.Fatalf("expected group selection to be dropped")
	}
}

func TestExpandableExpansion(t *testing.T) {
	e := newTree(t, nil, []string{"g0", "g1"})
	log := &groupLog[string, word]{}
	if _, err := e.AddListener(log, domain.CategoryExpansion); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	if ok, err := e.ExpandGroup(1); err != nil || !ok {
		t.Fatalf("expand: %v %v", ok, err)
	}
	if ok, _ := e.ExpandGroup(1); ok {
		t.Fatalf("expected second expansion to be a no-op")
	}
	if e.FirstExpandedGroupIndex() != 1 || e.FirstCollapsedGroupIndex() != 0 {
		t.Fatalf("unexpected expansion indices %d %d", e.FirstExpandedGroupIndex(), e.FirstCollapsedGroupIndex())
	}
	if g, ok := e.LastExpandedGroup(); !ok || g != "g1" {
		t.Fatalf("unexpected last expanded group %v %v", g, ok)
	}
	if expanded, _ := e.TriggerGroupExpansion(1); expanded {
		t.Fatalf("expected trigger to collapse")
	}
	if ok, _ := e.ExpandAll(); !ok || e.ExpandedGroupCount() != 2 {
		t.Fatalf("expected all groups expanded")
	}
	want := []string{"expanded group g1", "collapsed group g1", "expanded group g0", "expanded group g1"}
	if got := log.describe(); !slices.Equal(got, want) {
		t.Fatalf("unexpected events %v", got)
	}
	if _, err := e.CollapseGroup(5); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestExpandableChildrenFollowGroup(t *testing.T) {
	e := newTree(t, map[string][]word{"g": {"a", "b"}}, []string{"g"},
		adapter.WithGroupStates(3), adapter.WithChildrenFollowGroup(true, true))
	if _, err := e.SetGroupEnabled(0, false); err != nil {
		t.Fatalf("disable group: %v", err)
	}
	for ci := range 2 {
		if on, _ := e.IsChildEnabled(0, ci); on {
			t.Fatalf("expected child %d to follow the group", ci)
		}
	}
	if _, err := e.SetGroupState(0, 2); err != nil {
		t.Fatalf("set group state: %v", err)
	}
	if s, _ := e.ChildState(0, 1); s != 2 {
		t.Fatalf("expected child state 2, got %d", s)
	}
	ci, err := e.AddChild(0, "c")
	if err != nil {
		t.Fatalf("add child: %v", err)
	}
	if on, _ := e.IsChildEnabled(0, ci); on {
		t.Fatalf("expected new child to inherit disabled flag")
	}
	if s, _ := e.ChildState(0, ci); s != 2 {
		t.Fatalf("expected new child to inherit state, got %d", s)
	}
	if _, err := e.SetChildState(0, 0, 3); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestExpandableFilterEmptyGroups(t *testing.T) {
	e := newTree(t, map[string][]word{"g0": {"apple"}, "g1": {"plum"}, "g2": nil},
		[]string{"g0", "g1", "g2"}, adapter.WithFilterEmptyGroups(true))
	hit, err := e.ApplyChildFilterAll("a", 0)
	if err != nil || !hit {
		t.Fatalf("apply to all: %v %v", hit, err)
	}
	expectValues(t, e.Groups(), []string{"g0"})
	if e.TotalGroupCount() != 3 {
		t.Fatalf("expected hidden group to stay stored")
	}
	if ci, err := e.AddChildToGroup("g1", "banana"); err != nil || ci != 0 {
		t.Fatalf("add matching child to hidden group: %d %v", ci, err)
	}
	expectValues(t, e.Groups(), []string{"g0", "g1"})
	if _, err := e.ResetChildFilterAll("a", 0); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := e.SetFilterEmptyGroups(false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	expectValues(t, children(t, e, 1), []word{"plum", "banana"})
}

func TestExpandableGroupFilter(t *testing.T) {
	e := newTree(t, nil, []string{"red", "green", "blue"})
	hidden, err := e.ApplyGroupFilterFunc("e", 0, func(g string, q string, _ int) bool {
		return len(g) > 3
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	expectValues(t, hidden, []string{"red"})
	expectValues(t, e.Groups(), []string{"green", "blue"})
	if _, err := e.ApplyGroupFilter("x", 0); !errors.Is(err, domain.ErrUnsupported) {
		t.Fatalf("expected unsupported filter on plain strings, got %v", err)
	}
	if ok, _ := e.ResetAllGroupFilters(); !ok {
		t.Fatalf("expected reset")
	}
	expectValues(t, e.Groups(), []string{"red", "green", "blue"})
}

func TestExpandableAdaptsSelection(t *testing.T) {
	e := newTree(t, map[string][]word{"g0": {"a", "b"}, "g1": {"c"}}, []string{"g0", "g1"},
		adapter.WithGroupChoice(domain.ChoiceSingle, domain.ScopeChildrenOnly),
		adapter.WithGroupAdaptSelection(true))
	if sel, _ := e.SelectedChildren(0); !slices.Equal(sel, []word{"a"}) {
		t.Fatalf("expected first child selected, got %v", sel)
	}
	if _, err := e.RemoveChild(0, 0); err != nil {
		t.Fatalf("remove child: %v", err)
	}
	if sel, _ := e.SelectedChildren(0); !slices.Equal(sel, []word{"b"}) {
		t.Fatalf("expected sibling to be selected, got %v", sel)
	}
	if _, err := e.RemoveGroup(0); err != nil {
		t.Fatalf("remove group: %v", err)
	}
	if sel, _ := e.SelectedChildren(0); !slices.Equal(sel, []word{"c"}) {
		t.Fatalf("expected selection to move to the next group, got %v", sel)
	}
}

func TestExpandableSorts(t *testing.T) {
	e := newTree(t, map[string][]word{"b": {"z", "x", "y"}, "a": {"q"}}, []string{"b", "a"})
	log := &groupLog[string, word]{}
	if _, err := e.AddListener(log, domain.CategorySort); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	if err := e.SortGroups(domain.Ascending, nil); err != nil {
		t.Fatalf("sort groups: %v", err)
	}
	expectValues(t, e.Groups(), []string{"a", "b"})
	if err := e.SortChildren(1, domain.Descending, nil); err != nil {
		t.Fatalf("sort children: %v", err)
	}
	expectValues(t, children(t, e, 1), []word{"z", "y", "x"})
	if order, ok, _ := e.ChildSortOrder(1); !ok || order != domain.Descending {
		t.Fatalf("unexpected child sort memory %v %v", order, ok)
	}
	if ci, _ := e.AddChildSorted(1, "w", nil); ci != 3 {
		t.Fatalf("expected w at the end, got %d", ci)
	}
	if err := e.SortAllChildren(domain.Ascending, nil); err != nil {
		t.Fatalf("sort all: %v", err)
	}
	expectValues(t, children(t, e, 1), []word{"w", "x", "y", "z"})
	if len(log.events) != 4 || log.events[0].Target != domain.TargetGroup {
		t.Fatalf("unexpected sort events %v", log.describe())
	}
}

func TestExpandableRejectsMutationDuringStructuralDispatch(t *testing.T) {
	e := adapter.NewExpandable[string, word]()
	var inner error
	lis := domain.GroupListenerFunc(func(ev domain.GroupEvent[string, word]) {
		if ev.Kind == domain.EventAdded && ev.Target == domain.TargetGroup {
			_, inner = e.AddChild(0, "nested")
		}
	})
	if _, err := e.AddListener(lis); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	if _, err := e.AddGroup("g"); err != nil {
		t.Fatalf("add group: %v", err)
	}
	if !errors.Is(inner, domain.ErrReentrantMutation) {
		t.Fatalf("expected reentrant mutation error, got %v", inner)
	}
}

func TestExpandableRendersAndNotifies(t *testing.T) {
	e := newTree(t, map[string][]word{"g": {"a", "b"}}, []string{"g"},
		adapter.WithGroupChoice(domain.ChoiceMultiple, domain.ScopeGroupsAndChildren))
	host := &fakeHost{}
	if err := e.Attach(host); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := e.SetChildSelected(0, 1, true); err != nil {
		t.Fatalf("select: %v", err)
	}
	if host.refreshed != 1 || !slices.Equal(host.items, []int{0}) {
		t.Fatalf("unexpected host signals %d %v", host.refreshed, host.items)
	}
	if _, err := e.GroupView(0); !errors.Is(err, domain.ErrIllegalState) {
		t.Fatalf("expected missing renderer to fail, got %v", err)
	}
	e.SetRenderer(treeRenderer{})
	if e.ViewTypeCount() != 3 {
		t.Fatalf("unexpected view type count %d", e.ViewTypeCount())
	}
	if _, err := e.ExpandGroup(0); err != nil {
		t.Fatalf("expand: %v", err)
	}
	v, err := e.GroupView(0)
	if err != nil || v != "g expanded=true" {
		t.Fatalf("group view: %v %v", v, err)
	}
	v, err = e.ChildView(0, 1)
	if err != nil || v != "g/b@0.1" {
		t.Fatalf("child view: %v %v", v, err)
	}
}
