package listener

import (
	"errors"
	"testing"

	"adaptercore/pkg/domain"
)

type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) HandleEvent(ev string) { *r.log = append(*r.log, r.name+":"+ev) }

type funcHandler func(string)

func (f funcHandler) HandleEvent(ev string) { f(ev) }

func TestHubDispatchesInRegistrationOrder(t *testing.T) {
	var log []string
	hub := New[string]()
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	if ok, err := hub.Add(domain.CategoryStructure, a); err != nil || !ok {
		t.Fatalf("add a: %v %v", ok, err)
	}
	if ok, err := hub.Add(domain.CategoryStructure, b); err != nil || !ok {
		t.Fatalf("add b: %v %v", ok, err)
	}
	if ok, err := hub.Add(domain.CategoryStructure, a); err != nil || ok {
		t.Fatalf("expected duplicate registration to be a no-op, got %v %v", ok, err)
	}
	hub.Dispatch(domain.CategoryStructure, "x")
	hub.Dispatch(domain.CategoryState, "ignored")
	if len(log) != 2 || log[0] != "a:x" || log[1] != "b:x" {
		t.Fatalf("unexpected dispatch order %v", log)
	}
	if hub.Len(domain.CategoryStructure) != 2 {
		t.Fatalf("expected 2 handlers, got %d", hub.Len(domain.CategoryStructure))
	}
}

func TestHubRemove(t *testing.T) {
	var log []string
	hub := New[string]()
	a := &recorder{name: "a", log: &log}
	if _, err := hub.Add(domain.CategoryFilter, a); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !hub.Remove(domain.CategoryFilter, a) {
		t.Fatalf("expected remove to report presence")
	}
	if hub.Remove(domain.CategoryFilter, a) {
		t.Fatalf("expected second remove to be false")
	}
	hub.Dispatch(domain.CategoryFilter, "x")
	if len(log) != 0 {
		t.Fatalf("removed handler was called: %v", log)
	}
}

func TestHubRejectsNilAndIncomparableHandlers(t *testing.T) {
	hub := New[string]()
	if _, err := hub.Add(domain.CategorySort, nil); !errors.Is(err, domain.ErrNilArgument) {
		t.Fatalf("expected nil argument error, got %v", err)
	}
	var nilRecorder *recorder
	if _, err := hub.Add(domain.CategorySort, nilRecorder); !errors.Is(err, domain.ErrNilArgument) {
		t.Fatalf("expected nil argument error for typed nil, got %v", err)
	}
	if _, err := hub.Add(domain.CategorySort, funcHandler(func(string) {})); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for func handler, got %v", err)
	}
	// Comparable by type, but == panics once the field holds a slice.
	boxed := boxedHandler{payload: []string{"x"}}
	if _, err := hub.Add(domain.CategorySort, boxed); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for value handler, got %v", err)
	}
	if _, err := hub.Add(domain.CategorySort, &recorder{name: "ok", log: new([]string)}); err != nil {
		t.Fatalf("add pointer handler: %v", err)
	}
	if hub.Remove(domain.CategorySort, boxed) {
		t.Fatalf("value handler cannot be registered, so remove must be false")
	}
}

type boxedHandler struct{ payload any }

func (boxedHandler) HandleEvent(string) {}

func TestHubTracksStructuralDispatch(t *testing.T) {
	hub := New[string]()
	var during bool
	hook := &hookHandler{fn: func() { during = hub.InStructuralDispatch() }}
	if _, err := hub.Add(domain.CategoryStructure, hook); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := hub.Add(domain.CategoryState, hook); err != nil {
		t.Fatalf("add: %v", err)
	}
	hub.Dispatch(domain.CategoryStructure, "x")
	if !during {
		t.Fatalf("expected structural dispatch to be flagged")
	}
	hub.Dispatch(domain.CategoryState, "y")
	if during {
		t.Fatalf("state dispatch must not be flagged as structural")
	}
	if hub.InStructuralDispatch() {
		t.Fatalf("flag must be cleared after dispatch")
	}
}

type hookHandler struct{ fn func() }

func (p *hookHandler) HandleEvent(string) { p.fn() }

func TestHubAddDuringDispatchAppliesToNextEvent(t *testing.T) {
	var log []string
	hub := New[string]()
	late := &recorder{name: "late", log: &log}
	adder := &hookHandler{}
	adder.fn = func() { _, _ = hub.Add(domain.CategoryStructure, late) }
	if _, err := hub.Add(domain.CategoryStructure, adder); err != nil {
		t.Fatalf("add: %v", err)
	}
	hub.Dispatch(domain.CategoryStructure, "first")
	if len(log) != 0 {
		t.Fatalf("late handler must not see the in-flight event: %v", log)
	}
	hub.Dispatch(domain.CategoryStructure, "second")
	if len(log) != 1 || log[0] != "late:second" {
		t.Fatalf("unexpected log %v", log)
	}
}
