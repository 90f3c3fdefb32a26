// Package listener implements the ordered, duplicate suppressing multicast
// registry used by the adapters to publish events.
package listener

import (
	"fmt"
	"reflect"

	"adaptercore/pkg/domain"
)

// Handler receives events of type E.
type Handler[E any] interface {
	HandleEvent(E)
}

// Hub keeps one insertion ordered handler set per category. Dispatch is
// synchronous and runs in registration order. Hub is not safe for concurrent
// use; callers serialize access the same way they serialize mutations.
type Hub[E any] struct {
	handlers   map[domain.Category][]Handler[E]
	structural int
}

// New returns an empty hub.
func New[E any]() *Hub[E] {
	return &Hub[E]{handlers: make(map[domain.Category][]Handler[E])}
}

// Add registers h for category c. It returns false when h is already
// registered for c. Handlers are keyed by pointer identity; any other kind
// fails with ErrInvalidArgument.
func (h *Hub[E]) Add(c domain.Category, handler Handler[E]) (bool, error) {
	if handler == nil || domain.IsNil(handler) {
		return false, fmt.Errorf("add %s listener: %w", c, domain.ErrNilArgument)
	}
	if !byIdentity(handler) {
		return false, fmt.Errorf("add %s listener: %T is not a pointer: %w", c, handler, domain.ErrInvalidArgument)
	}
	for _, existing := range h.handlers[c] {
		if existing == handler {
			return false, nil
		}
	}
	h.handlers[c] = append(h.handlers[c], handler)
	return true, nil
}

// Remove unregisters h from category c, reporting whether it was present.
func (h *Hub[E]) Remove(c domain.Category, handler Handler[E]) bool {
	if handler == nil || !byIdentity(handler) {
		return false
	}
	list := h.handlers[c]
	for i, existing := range list {
		if existing == handler {
			next := make([]Handler[E], 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			h.handlers[c] = next
			return true
		}
	}
	return false
}

// byIdentity reports whether == on h compares addresses, which never panics.
func byIdentity(h any) bool { return reflect.TypeOf(h).Kind() == reflect.Pointer }

// Len returns the number of handlers registered for c.
func (h *Hub[E]) Len(c domain.Category) int { return len(h.handlers[c]) }

// Dispatch delivers ev to every handler of c. Handlers added or removed
// during the dispatch take effect for the next event.
func (h *Hub[E]) Dispatch(c domain.Category, ev E) {
	list := h.handlers[c]
	if len(list) == 0 {
		return
	}
	if c == domain.CategoryStructure {
		h.structural++
		defer func() { h.structural-- }()
	}
	for _, handler := range list {
		handler.HandleEvent(ev)
	}
}

// InStructuralDispatch reports whether a structural event is being delivered.
func (h *Hub[E]) InStructuralDispatch() bool { return h.structural > 0 }
