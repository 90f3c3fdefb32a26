// Package observability turns adapter events into metrics. A Recorder is fed
// through the listener adapters in this package; Prometheus and expvar
// recorders are provided.
package observability

import (
	"adaptercore/pkg/domain"
)

// Recorder observes one dispatched event. items is the number of entries the
// event carried (hidden or revealed by a filter, reordered by a sort), zero
// otherwise.
type Recorder interface {
	Observe(adapter string, kind domain.EventKind, target domain.Target, items int)
}

type listListener[T any] struct {
	rec     Recorder
	adapter string
}

// ListListener returns a listener that forwards every event of a List named
// adapter to rec. Register it with List.AddListener.
func ListListener[T any](rec Recorder, adapter string) domain.Listener[T] {
	return &listListener[T]{rec: rec, adapter: adapter}
}

func (l *listListener[T]) HandleEvent(ev domain.Event[T]) {
	l.rec.Observe(l.adapter, ev.Kind, domain.TargetGroup, len(ev.Items))
}

type groupListener[G, C any] struct {
	rec     Recorder
	adapter string
}

// GroupListener is ListListener for an Expandable.
func GroupListener[G, C any](rec Recorder, adapter string) domain.GroupListener[G, C] {
	return &groupListener[G, C]{rec: rec, adapter: adapter}
}

func (l *groupListener[G, C]) HandleEvent(ev domain.GroupEvent[G, C]) {
	l.rec.Observe(l.adapter, ev.Kind, ev.Target, len(ev.Groups)+len(ev.Children))
}

// Multi fans one observation out to several recorders.
type Multi []Recorder

func (m Multi) Observe(adapter string, kind domain.EventKind, target domain.Target, items int) {
	for _, r := range m {
		r.Observe(adapter, kind, target, items)
	}
}
