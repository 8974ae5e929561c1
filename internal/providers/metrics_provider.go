package providers

import (
	"checkinboard/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	ObserveUpstreamDuration(endpoint string, duration time.Duration)
	IncHydrations(result string)
	SetPinnedTotal(schedule string, count int)
}

const (
	HydrationOK     = "ok"
	HydrationFailed = "failed"
)

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	upstreamDuration    *prometheus.HistogramVec
	hydrations          *prometheus.CounterVec
	pinnedTotal         *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveUpstreamDuration(endpoint string, duration time.Duration) {
	m.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncHydrations(result string) {
	m.hydrations.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) SetPinnedTotal(schedule string, count int) {
	m.pinnedTotal.WithLabelValues(schedule).Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	factory := promauto.With(prometheus.DefaultRegisterer)

	return &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkinboard_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "checkinboard_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkinboard_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "checkinboard_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		persistenceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkinboard_persistence_duration_seconds",
			Help:    "Duration of storage writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		upstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "checkinboard_upstream_duration_seconds",
			Help:    "Duration of check-in API calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		hydrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "checkinboard_pinned_hydrations_total",
			Help: "Pinned user hydrations by result",
		}, []string{"result"}),

		pinnedTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "checkinboard_pinned_users",
			Help: "Number of pinned users per schedule",
		}, []string{"schedule"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)        {}
func (n *noopMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncHydrations(_ string)                            {}
func (n *noopMetrics) SetPinnedTotal(_ string, _ int)                    {}
