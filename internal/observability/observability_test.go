package observability

import (
	"bytes"
	"encoding/json"
	"expvar"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"adaptercore/pkg/adapter"
	"adaptercore/pkg/domain"
)

type fruit string

func (f fruit) Match(query string, _ int) bool { return strings.Contains(string(f), query) }

func TestCollectorCountsListEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	col, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	l := adapter.NewList[fruit](adapter.WithChoiceMode(domain.ChoiceMultiple))
	if _, err := l.AddListener(ListListener[fruit](col, "fruits")); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	if ok, err := l.AddAll([]fruit{"apple", "pear", "plum"}); err != nil || !ok {
		t.Fatalf("add: %v %v", ok, err)
	}
	if _, err := l.SetSelected(0, true); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := l.ApplyFilter("p", 0); err != nil {
		t.Fatalf("filter: %v", err)
	}

	if got := testutil.ToFloat64(col.events.WithLabelValues("fruits", "structure", "added", "group")); got != 3 {
		t.Fatalf("expected 3 additions, got %v", got)
	}
	if got := testutil.ToFloat64(col.events.WithLabelValues("fruits", "selection", "selected", "group")); got != 1 {
		t.Fatalf("expected 1 selection, got %v", got)
	}
	if got := testutil.ToFloat64(col.items.WithLabelValues("fruits", "filter_applied")); got != 0 {
		t.Fatalf("every fruit contains p, expected nothing hidden, got %v", got)
	}
	if _, err := l.ApplyFilter("l", 0); err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got := testutil.ToFloat64(col.items.WithLabelValues("fruits", "filter_applied")); got != 1 {
		t.Fatalf("expected pear to be hidden, got %v", got)
	}
}

func TestCollectorCountsGroupEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	col, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	e := adapter.NewExpandable[string, fruit]()
	if _, err := e.AddListener(GroupListener[string, fruit](col, "tree")); err != nil {
		t.Fatalf("add listener: %v", err)
	}
	if gi, err := e.AddGroup("g"); err != nil || gi < 0 {
		t.Fatalf("add group: %d %v", gi, err)
	}
	for _, c := range []fruit{"b", "a"} {
		if ci, err := e.AddChild(0, c); err != nil || ci < 0 {
			t.Fatalf("add child: %d %v", ci, err)
		}
	}
	if err := e.SortChildren(0, domain.Ascending, nil); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if got := testutil.ToFloat64(col.events.WithLabelValues("tree", "structure", "added", "child")); got != 2 {
		t.Fatalf("expected 2 child additions, got %v", got)
	}
	if got := testutil.ToFloat64(col.events.WithLabelValues("tree", "structure", "added", "group")); got != 1 {
		t.Fatalf("expected 1 group addition, got %v", got)
	}
	if got := testutil.ToFloat64(col.items.WithLabelValues("tree", "sorted")); got != 2 {
		t.Fatalf("expected sorted children to be counted, got %v", got)
	}
}

func TestCollectorRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector(reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewCollector(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestExpvarRecorderPublishesSnapshot(t *testing.T) {
	rec := NewExpvarRecorder("")
	other := NewExpvarRecorder("")
	if rec.Name() == other.Name() {
		t.Fatalf("generated names collide: %s", rec.Name())
	}
	var m Multi = []Recorder{rec, other}
	m.Observe("fruits", domain.EventFilterApplied, domain.TargetChild, 4)
	m.Observe("fruits", domain.EventFilterApplied, domain.TargetChild, 1)

	snap := rec.Snapshot()
	if snap.Events["fruits"]["child.filter_applied"] != 2 || snap.Items["fruits"] != 5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	v := expvar.Get(other.Name())
	if v == nil {
		t.Fatalf("recorder not published")
	}
	var decoded ExpvarSnapshot
	if err := json.Unmarshal([]byte(v.String()), &decoded); err != nil {
		t.Fatalf("decode published value: %v", err)
	}
	if decoded.Events["fruits"]["child.filter_applied"] != 2 {
		t.Fatalf("unexpected published value %s", v.String())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "json", "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	var l adapter.Logger = log
	l.Info("dropped")
	l.Warn("restore failed", "error", "boom")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), `"msg":"restore failed"`) {
		t.Fatalf("unexpected log output %s", buf.String())
	}
	if _, err := NewLogger(&buf, "xml", "info"); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
	if _, err := NewLogger(&buf, "text", "loud"); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
}
