package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"adaptercore/pkg/domain"
)

// Collector exports adapter events as Prometheus counters:
//
//	adaptercore_events_total{adapter,category,kind,target}
//	adaptercore_event_items_total{adapter,kind}
type Collector struct {
	events *prometheus.CounterVec
	items  *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adaptercore",
			Name:      "events_total",
			Help:      "Adapter events dispatched to listeners.",
		}, []string{"adapter", "category", "kind", "target"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adaptercore",
			Name:      "event_items_total",
			Help:      "Entries carried by filter and sort events.",
		}, []string{"adapter", "kind"}),
	}
	for _, col := range []prometheus.Collector{c.events, c.items} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Observe(adapter string, kind domain.EventKind, target domain.Target, items int) {
	c.events.WithLabelValues(adapter, kind.Category().String(), kind.String(), target.String()).Inc()
	if items > 0 {
		c.items.WithLabelValues(adapter, kind.String()).Add(float64(items))
	}
}
