package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 设置缓存指标
type Metrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	invalidations prometheus.Counter
	flushes       prometheus.Counter
}

// NewMetrics 创建指标，reg 为 nil 时不注册
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "setting_center",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Setting cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "setting_center",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Setting cache misses",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "setting_center",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Per-key invalidations after writes",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "setting_center",
			Subsystem: "cache",
			Name:      "flushes_total",
			Help:      "Full cache flushes",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.invalidations, m.flushes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
