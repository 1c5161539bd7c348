package sync

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts propagation attempts and swallowed failures per entity kind,
// making best-effort drift observable without ever surfacing it to callers.
// A nil *Metrics is valid and counts nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics creates and registers the propagation counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finbuddy_mirror_sync_attempts_total",
			Help: "Propagation attempts against the secondary store, by entity kind.",
		}, []string{"entity"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finbuddy_mirror_sync_failures_total",
			Help: "Swallowed propagation failures, by entity kind.",
		}, []string{"entity"}),
	}
	if reg != nil {
		reg.MustRegister(m.attempts, m.failures)
	}
	return m
}

// Attempt records one propagation attempt for the entity kind.
func (m *Metrics) Attempt(entity string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(entity).Inc()
}

// Failure records one swallowed propagation failure for the entity kind.
func (m *Metrics) Failure(entity string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(entity).Inc()
}
