package adapter

import (
	"fmt"

	"adaptercore/pkg/domain"
)

// Attach binds the list to h. Refresh signals are pushed only while a host
// is attached and NotifyOnChange is set.
func (l *List[T]) Attach(h Host) error {
	if h == nil || domain.IsNil(h) {
		return fmt.Errorf("attach: %w", domain.ErrNilArgument)
	}
	l.host.attach(h)
	l.host.structureChanged()
	return nil
}

// Detach unbinds the host.
func (l *List[T]) Detach() { l.host.detach() }

// IsAttached reports whether a host is attached.
func (l *List[T]) IsAttached() bool { return l.host.attached() }

// NotifyOnChange reports whether the host is refreshed on changes.
func (l *List[T]) NotifyOnChange() bool { return l.cfg.NotifyOnChange }

// SetNotifyOnChange toggles host refreshes. Turning it on refreshes an
// attached host once.
func (l *List[T]) SetNotifyOnChange(on bool) {
	l.cfg.NotifyOnChange = on
	if on {
		l.host.structureChanged()
	}
}

// SetRenderer installs the renderer used by ViewAt.
func (l *List[T]) SetRenderer(r Renderer[T]) { l.renderer = r }

// ViewTypeCount returns the number of view types of the renderer, 1 without
// one.
func (l *List[T]) ViewTypeCount() int {
	if l.renderer == nil {
		return 1
	}
	return l.renderer.ViewTypeCount()
}

// ViewType classifies the visible entry at index.
func (l *List[T]) ViewType(index int) (int, error) {
	it, err := l.at("view type", index)
	if err != nil {
		return 0, err
	}
	if l.renderer == nil {
		return 0, nil
	}
	return l.renderer.ViewType(it.Data), nil
}

// ViewAt renders the visible entry at index.
func (l *List[T]) ViewAt(index int) (ViewHandle, error) {
	it, err := l.at("view", index)
	if err != nil {
		return nil, err
	}
	if l.renderer == nil {
		return nil, fmt.Errorf("view: no renderer: %w", domain.ErrIllegalState)
	}
	st := RenderState{
		Index:    index,
		ViewType: l.renderer.ViewType(it.Data),
		Enabled:  it.Enabled,
		State:    it.State,
		Selected: it.Selected,
		Filtered: l.scope.HasFilters(),
	}
	return l.renderer.Render(it.Data, st)
}
