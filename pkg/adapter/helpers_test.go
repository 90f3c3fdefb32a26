package adapter_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"adaptercore/pkg/adapter"
	"adaptercore/pkg/domain"
)

type word string

func (w word) Match(query string, _ int) bool { return strings.Contains(string(w), query) }

type listLog[T any] struct {
	events []domain.Event[T]
}

func (r *listLog[T]) HandleEvent(ev domain.Event[T]) { r.events = append(r.events, ev) }

func (r *listLog[T]) kinds() []domain.EventKind {
	out := make([]domain.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *listLog[T]) reset() { r.events = nil }

type groupLog[G, C any] struct {
	events []domain.GroupEvent[G, C]
}

func (r *groupLog[G, C]) HandleEvent(ev domain.GroupEvent[G, C]) { r.events = append(r.events, ev) }

func (r *groupLog[G, C]) describe() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		if ev.Target == domain.TargetChild {
			out[i] = fmt.Sprintf("%s child %v/%v", ev.Kind, ev.Group, ev.Child)
			continue
		}
		out[i] = fmt.Sprintf("%s group %v", ev.Kind, ev.Group)
	}
	return out
}

type fakeHost struct {
	refreshed int
	items     []int
}

func (h *fakeHost) NotifyDataSetChanged()       { h.refreshed++ }
func (h *fakeHost) NotifyItemChanged(index int) { h.items = append(h.items, index) }

type labelRenderer struct{}

func (labelRenderer) Render(data word, st adapter.RenderState) (adapter.ViewHandle, error) {
	return fmt.Sprintf("%d:%s:%d:%t", st.Index, data, st.State, st.Selected), nil
}

func (labelRenderer) ViewType(data word) int {
	if strings.HasPrefix(string(data), "#") {
		return 1
	}
	return 0
}

func (labelRenderer) ViewTypeCount() int { return 2 }

func newWordList(t *testing.T, values []word, opts ...adapter.Option) *adapter.List[word] {
	t.Helper()
	l := adapter.NewList[word](opts...)
	if ok, err := l.AddAll(values); err != nil || !ok {
		t.Fatalf("seed list: %v %v", ok, err)
	}
	return l
}

func expectValues[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
