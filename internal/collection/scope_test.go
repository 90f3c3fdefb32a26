package collection

import (
	"errors"
	"strings"
	"testing"

	"adaptercore/pkg/domain"
)

type word string

func (w word) Match(query string, _ int) bool { return strings.Contains(string(w), query) }

func newWordScope(values ...string) *Scope[*domain.Item[word], word] {
	s := NewScope[*domain.Item[word]](func(a, b word) bool { return a == b }, false)
	for _, v := range values {
		if _, err := s.Add(domain.NewItem(word(v))); err != nil {
			panic(err)
		}
	}
	return s
}

func wordValues(s *Scope[*domain.Item[word], word]) string {
	var parts []string
	for _, v := range s.Values() {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ",")
}

func TestScopeFilterIsReversible(t *testing.T) {
	s := newWordScope("apple", "banana", "cherry", "grape")
	hidden, applied, err := s.ApplyFilter(domain.FilterQuery{Query: "an"}, nil)
	if err != nil || !applied {
		t.Fatalf("apply: %v %v", applied, err)
	}
	if got := wordValues(s); got != "banana" {
		t.Fatalf("unexpected filtered view %q", got)
	}
	if len(hidden) != 3 {
		t.Fatalf("expected 3 hidden entries, got %d", len(hidden))
	}
	if _, applied, _ := s.ApplyFilter(domain.FilterQuery{Query: "an"}, nil); applied {
		t.Fatalf("re-applying an active query must be a no-op")
	}
	shown, ok, err := s.ResetFilter(domain.FilterQuery{Query: "an"})
	if err != nil || !ok || len(shown) != 3 {
		t.Fatalf("reset: %v %v %d", ok, err, len(shown))
	}
	if got := wordValues(s); got != "apple,banana,cherry,grape" {
		t.Fatalf("reset must restore original order, got %q", got)
	}
}

func TestScopeResetRecomputesFromRemainingQueries(t *testing.T) {
	s := newWordScope("ab", "a", "b", "abc", "c")
	f1 := domain.FilterQuery{Query: "a"}
	f2 := domain.FilterQuery{Query: "b"}
	if _, _, err := s.ApplyFilter(f1, nil); err != nil {
		t.Fatalf("apply f1: %v", err)
	}
	if _, _, err := s.ApplyFilter(f2, nil); err != nil {
		t.Fatalf("apply f2: %v", err)
	}
	if got := wordValues(s); got != "ab,abc" {
		t.Fatalf("unexpected intersection %q", got)
	}
	if _, _, err := s.ResetFilter(f1); err != nil {
		t.Fatalf("reset f1: %v", err)
	}
	only := newWordScope("ab", "a", "b", "abc", "c")
	if _, _, err := only.ApplyFilter(f2, nil); err != nil {
		t.Fatalf("apply only f2: %v", err)
	}
	if wordValues(s) != wordValues(only) {
		t.Fatalf("expected %q, got %q", wordValues(only), wordValues(s))
	}
}

func TestScopeInsertWhileFiltered(t *testing.T) {
	s := newWordScope("xa", "xb", "yc")
	if _, _, err := s.ApplyFilter(domain.FilterQuery{Query: "x"}, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	idx, err := s.Add(domain.NewItem(word("zz")))
	if err != nil || idx != Hidden {
		t.Fatalf("expected hidden insertion, got %d %v", idx, err)
	}
	idx, err = s.Insert(1, domain.NewItem(word("xnew")))
	if err != nil || idx != 1 {
		t.Fatalf("expected visible insertion at 1, got %d %v", idx, err)
	}
	if got := wordValues(s); got != "xa,xnew,xb" {
		t.Fatalf("unexpected view %q", got)
	}
	if s.Total() != 5 {
		t.Fatalf("expected 5 stored entries, got %d", s.Total())
	}
	s.ResetAllFilters()
	if got := wordValues(s); got != "xa,xnew,xb,yc,zz" {
		t.Fatalf("unexpected unfiltered order %q", got)
	}
}

func TestScopeRemoveWhileFilteredRemovesFromBothViews(t *testing.T) {
	s := newWordScope("xa", "yb", "xc")
	if _, _, err := s.ApplyFilter(domain.FilterQuery{Query: "x"}, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	e, err := s.RemoveAt(1)
	if err != nil || e.Data != "xc" {
		t.Fatalf("unexpected removal %v %v", e, err)
	}
	s.ResetAllFilters()
	if got := wordValues(s); got != "xa,yb" {
		t.Fatalf("unexpected view %q", got)
	}
}

func TestScopeFilterRequiresCapability(t *testing.T) {
	s := NewScope[*domain.Item[int]](func(a, b int) bool { return a == b }, false)
	if _, err := s.Add(domain.NewItem(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := s.ApplyFilter(domain.FilterQuery{Query: "1"}, nil); !errors.Is(err, domain.ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if s.IsFiltered() {
		t.Fatalf("failed filter must not be registered")
	}
	even := func(v int, _ string, _ int) bool { return v%2 == 0 }
	if _, _, err := s.ApplyFilter(domain.FilterQuery{Query: "even"}, even); err != nil {
		t.Fatalf("explicit predicate must work: %v", err)
	}
	if s.Len() != 0 || s.Total() != 1 {
		t.Fatalf("unexpected sizes %d/%d", s.Len(), s.Total())
	}
}

func TestScopeSortStableAndReverse(t *testing.T) {
	s := newWordScope("pear", "fig", "apple", "kiwi")
	byLen := func(a, b word) int { return len(a) - len(b) }
	if err := s.Sort(domain.Ascending, byLen); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if got := wordValues(s); got != "fig,pear,kiwi,apple" {
		t.Fatalf("unexpected stable order %q", got)
	}
	if err := s.Sort(domain.Ascending, nil); err != nil {
		t.Fatalf("natural sort: %v", err)
	}
	asc := s.Values()
	if err := s.Sort(domain.Descending, nil); err != nil {
		t.Fatalf("descending sort: %v", err)
	}
	desc := s.Values()
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("descending must reverse ascending: %v vs %v", asc, desc)
		}
	}
	order, _, ok := s.SortMemory()
	if !ok || order != domain.Descending {
		t.Fatalf("expected remembered descending order")
	}
}

func TestScopeSortWithoutNaturalOrder(t *testing.T) {
	type opaque struct{ v int }
	s := NewScope[*domain.Item[opaque]](func(a, b opaque) bool { return a == b }, false)
	_, _ = s.Add(domain.NewItem(opaque{2}))
	_, _ = s.Add(domain.NewItem(opaque{1}))
	if err := s.Sort(domain.Ascending, nil); !errors.Is(err, domain.ErrUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if err := s.Sort(domain.Ascending, func(a, b opaque) int { return a.v - b.v }); err != nil {
		t.Fatalf("sort with comparator: %v", err)
	}
	first, _ := s.At(0)
	if first.Data.v != 1 {
		t.Fatalf("unexpected first value %v", first.Data)
	}
}

func TestScopeInsertSortedFollowsRememberedOrder(t *testing.T) {
	s := newWordScope("c", "a", "e")
	if err := s.Sort(domain.Descending, nil); err != nil {
		t.Fatalf("sort: %v", err)
	}
	idx, err := s.InsertSorted(domain.NewItem(word("d")), nil)
	if err != nil || idx != 1 {
		t.Fatalf("expected index 1, got %d %v", idx, err)
	}
	if got := wordValues(s); got != "e,d,c,a" {
		t.Fatalf("unexpected order %q", got)
	}
	if _, _, err := s.ApplyFilter(domain.FilterQuery{Query: "a"}, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	idx, err = s.InsertSorted(domain.NewItem(word("b")), nil)
	if err != nil || idx != Hidden {
		t.Fatalf("expected hidden sorted insertion, got %d %v", idx, err)
	}
	s.ResetAllFilters()
	if got := wordValues(s); got != "e,d,c,b,a" {
		t.Fatalf("unexpected order %q", got)
	}
}

func TestScopeClearReportsVisibleIndices(t *testing.T) {
	s := newWordScope("xa", "yb", "xc")
	if _, _, err := s.ApplyFilter(domain.FilterQuery{Query: "x"}, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	removed := s.Clear()
	if len(removed) != 3 {
		t.Fatalf("expected 3 removals, got %d", len(removed))
	}
	if removed[0].Index != 1 || removed[1].Index != Hidden || removed[2].Index != 0 {
		t.Fatalf("unexpected removal indices %+v", removed)
	}
	if s.Len() != 0 || s.Total() != 0 {
		t.Fatalf("expected empty scope")
	}
}

func TestScopeIteratorInvalidatedByFilter(t *testing.T) {
	s := newWordScope("xa", "yb")
	it := s.Iterator()
	if !it.Next() {
		t.Fatalf("expected a value")
	}
	if _, _, err := s.ApplyFilter(domain.FilterQuery{Query: "x"}, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if it.Next() || !errors.Is(it.Err(), domain.ErrConcurrentModification) {
		t.Fatalf("expected fail-fast after view change, err=%v", it.Err())
	}
}

func TestScopeLoadInvalidatesIterators(t *testing.T) {
	s := newWordScope("a", "b")
	it := s.Iterator()
	sub, err := s.SubList(0, 2)
	if err != nil {
		t.Fatalf("sublist: %v", err)
	}
	if !it.Next() {
		t.Fatalf("expected a value")
	}
	// A fresh scope with the same number of changes must still invalidate.
	s.Load(newWordScope("x", "y"))
	if it.Next() || !errors.Is(it.Err(), domain.ErrConcurrentModification) {
		t.Fatalf("expected fail-fast after load, err=%v", it.Err())
	}
	if _, err := sub.Values(); !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected stale sublist, got %v", err)
	}
	if got := wordValues(s); got != "x,y" {
		t.Fatalf("unexpected loaded values %q", got)
	}
	fresh := s.Iterator()
	if !fresh.Next() || fresh.Value() != "x" {
		t.Fatalf("expected new iterator to see loaded data")
	}
	s.Invalidate()
	if fresh.Next() || !errors.Is(fresh.Err(), domain.ErrConcurrentModification) {
		t.Fatalf("expected invalidate to stop iteration, err=%v", fresh.Err())
	}
}
