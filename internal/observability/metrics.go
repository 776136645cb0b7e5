// Package observability provides Prometheus metrics for the advisor.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the advisor's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so metrics can be disabled by configuration
// without branching at every call site.
type Metrics struct {
	requests       *prometheus.CounterVec
	remoteFailures *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	remoteDuration prometheus.Histogram
}

// New registers the advisor collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_requests_total",
			Help: "Recommendation requests by response origin (model, cache, fallback).",
		}, []string{"origin"}),
		remoteFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_remote_failures_total",
			Help: "Failed remote completion attempts by reason (transport, shape).",
		}, []string{"reason"}),
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "advisor_cache_hits_total",
			Help: "Response cache hits.",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "advisor_cache_misses_total",
			Help: "Response cache misses.",
		}),
		remoteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisor_remote_duration_seconds",
			Help:    "Latency of remote completion calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveRequest counts a completed recommendation request by origin.
func (m *Metrics) ObserveRequest(origin string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(origin).Inc()
}

// ObserveRemoteFailure counts a failed remote attempt by reason.
func (m *Metrics) ObserveRemoteFailure(reason string) {
	if m == nil {
		return
	}
	m.remoteFailures.WithLabelValues(reason).Inc()
}

// ObserveCacheHit counts a response cache hit.
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// ObserveCacheMiss counts a response cache miss.
func (m *Metrics) ObserveCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// ObserveRemoteDuration records the latency of one remote call.
func (m *Metrics) ObserveRemoteDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.remoteDuration.Observe(d.Seconds())
}
