package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters published by the multi-level cache.
// A nil *Metrics disables collection.
type Metrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	loads  *prometheus.CounterVec
	faults *prometheus.CounterVec
}

// NewMetrics creates and registers the cache counters on reg. Returns nil
// when reg is nil so callers can wire metrics through unconditionally.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcache_hits_total",
			Help: "Cache hits by namespace and tier.",
		}, []string{"cache", "tier"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcache_misses_total",
			Help: "Total misses (absent in every tier) by namespace.",
		}, []string{"cache"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcache_loads_total",
			Help: "Loader invocations by namespace and outcome.",
		}, []string{"cache", "outcome"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcache_tier_faults_total",
			Help: "Tier operations converted to miss/no-op by namespace, tier and operation.",
		}, []string{"cache", "tier", "op"}),
	}
	reg.MustRegister(m.hits, m.misses, m.loads, m.faults)
	return m
}

func (m *Metrics) hit(cache, tier string) {
	if m != nil {
		m.hits.WithLabelValues(cache, tier).Inc()
	}
}

func (m *Metrics) miss(cache string) {
	if m != nil {
		m.misses.WithLabelValues(cache).Inc()
	}
}

func (m *Metrics) load(cache, outcome string) {
	if m != nil {
		m.loads.WithLabelValues(cache, outcome).Inc()
	}
}

func (m *Metrics) fault(cache, tier, op string) {
	if m != nil {
		m.faults.WithLabelValues(cache, tier, op).Inc()
	}
}
