package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	HostnameResultResolved = "resolved"
	HostnameResultFallback = "fallback"
)

// HostnameMetrics holds Prometheus metrics for local hostname resolution.
type HostnameMetrics struct {
	LookupsTotal   *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	BreakerState   prometheus.Gauge
}

// NewHostnameMetrics creates and registers hostname metrics on the given registry.
func NewHostnameMetrics(reg prometheus.Registerer) *HostnameMetrics {
	m := &HostnameMetrics{
		LookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hostname",
			Name:      "lookups_total",
			Help:      "Total number of hostname lookups, by result (resolved, fallback).",
		}, []string{"result"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "hostname",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of hostname lookups that reached the resolver.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5},
		}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hostname",
			Name:      "circuit_breaker_state",
			Help:      "Hostname circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
	}

	reg.MustRegister(m.LookupsTotal, m.LookupDuration, m.BreakerState)
	return m
}

func (m *HostnameMetrics) RecordLookup(fallback bool, elapsed time.Duration) {
	result := HostnameResultResolved
	if fallback {
		result = HostnameResultFallback
	}
	m.LookupsTotal.WithLabelValues(result).Inc()
	if elapsed > 0 {
		m.LookupDuration.Observe(elapsed.Seconds())
	}
}

func (m *HostnameMetrics) SetBreakerState(state float64) {
	m.BreakerState.Set(state)
}
