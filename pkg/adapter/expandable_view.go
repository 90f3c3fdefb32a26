package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// Attach binds the expandable to h.
func (e *Expandable[G, C]) Attach(h Host) error {
	if h == nil || domain.IsNil(h) {
		return fmt.Errorf("attach: %w", domain.ErrNilArgument)
	}
	e.host.attach(h)
	e.host.structureChanged()
	return nil
}

// Detach unbinds the host.
func (e *Expandable[G, C]) Detach() { e.host.detach() }

// IsAttached reports whether a host is attached.
func (e *Expandable[G, C]) IsAttached() bool { return e.host.attached() }

// NotifyOnChange reports whether the host is refreshed on changes.
func (e *Expandable[G, C]) NotifyOnChange() bool { return e.cfg.NotifyOnChange }

// SetNotifyOnChange toggles host refreshes.
func (e *Expandable[G, C]) SetNotifyOnChange(on bool) {
	e.cfg.NotifyOnChange = on
	if on {
		e.host.structureChanged()
	}
}

// SetRenderer installs the renderer used by GroupView and ChildView.
func (e *Expandable[G, C]) SetRenderer(r GroupRenderer[G, C]) { e.renderer = r }

// ViewTypeCount returns the number of group plus child view types.
func (e *Expandable[G, C]) ViewTypeCount() int {
	if e.renderer == nil {
		return 2
	}
	return e.renderer.GroupViewTypeCount() + e.renderer.ChildViewTypeCount()
}

// GroupView renders the visible group at gi.
func (e *Expandable[G, C]) GroupView(gi int) (ViewHandle, error) {
	g, err := e.groupAt("group view", gi)
	if err != nil {
		return nil, err
	}
	if e.renderer == nil {
		return nil, fmt.Errorf("group view: no renderer: %w", domain.ErrIllegalState)
	}
	st := GroupRenderState{
		RenderState: RenderState{
			Index:    gi,
			ViewType: e.renderer.GroupViewType(g.data),
			Enabled:  g.flags.Enabled,
			State:    g.flags.State,
			Selected: g.flags.Selected,
			Filtered: e.groups.HasFilters(),
		},
		Expanded: g.expanded,
	}
	return e.renderer.RenderGroup(g.data, st)
}

// ChildView renders visible child ci of group gi.
func (e *Expandable[G, C]) ChildView(gi, ci int) (ViewHandle, error) {
	g, it, err := e.childAt("child view", gi, ci)
	if err != nil {
		return nil, err
	}
	if e.renderer == nil {
		return nil, fmt.Errorf("child view: no renderer: %w", domain.ErrIllegalState)
	}
	st := ChildRenderState{
		RenderState: RenderState{
			Index:    ci,
			ViewType: e.renderer.ChildViewType(it.Data),
			Enabled:  it.Enabled,
			State:    it.State,
			Selected: it.Selected,
			Filtered: g.children.HasFilters(),
		},
		GroupIndex: gi,
	}
	return e.renderer.RenderChild(g.data, it.Data, st)
}
