package observability

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"adaptercore/pkg/domain"
)

var expvarSeq uint64

// ExpvarRecorder publishes per adapter event counts via expvar for
// deployments that prefer process-local metrics.
type ExpvarRecorder struct {
	name   string
	mu     sync.Mutex
	counts map[string]map[string]int64
	items  map[string]int64
}

// ExpvarSnapshot is a read-only view of the recorded counts.
type ExpvarSnapshot struct {
	Events     map[string]map[string]int64 `json:"events_total"`
	Items      map[string]int64            `json:"items_total"`
	RecordedAt time.Time                   `json:"recorded_at"`
}

// NewExpvarRecorder publishes a recorder under name. When name is empty a
// unique one is generated.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("adaptercore_events_%d", id)
	}
	rec := &ExpvarRecorder{
		name:   name,
		counts: make(map[string]map[string]int64),
		items:  make(map[string]int64),
	}
	expvar.Publish(name, expvar.Func(func() any { return rec.Snapshot() }))
	return rec
}

// Name returns the expvar export name.
func (r *ExpvarRecorder) Name() string { return r.name }

func (r *ExpvarRecorder) Observe(adapter string, kind domain.EventKind, target domain.Target, items int) {
	key := target.String() + "." + kind.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.counts[adapter]; !ok {
		r.counts[adapter] = make(map[string]int64)
	}
	r.counts[adapter][key]++
	r.items[adapter] += int64(items)
}

// Snapshot returns a copy of the aggregated counts.
func (r *ExpvarRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make(map[string]map[string]int64, len(r.counts))
	for adapter, counts := range r.counts {
		cpy := make(map[string]int64, len(counts))
		for k, v := range counts {
			cpy[k] = v
		}
		events[adapter] = cpy
	}
	items := make(map[string]int64, len(r.items))
	for k, v := range r.items {
		items[k] = v
	}
	return ExpvarSnapshot{Events: events, Items: items, RecordedAt: time.Now().UTC()}
}
