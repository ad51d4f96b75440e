package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mulesync/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	SetQueueSize(size int)
	IncJobsTotal(outcome string)
	ObserveJobDuration(duration time.Duration)
	IncLockouts()
	IncUpstreamRequests(endpoint string, status int)
	ObserveUpstreamDuration(endpoint string, duration time.Duration)
	AddParserDiagnostics(malformedFields, skippedItems int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	queueSize           prometheus.Gauge
	jobsTotal           *prometheus.CounterVec
	jobDuration         prometheus.Histogram
	lockouts            prometheus.Counter
	upstreamRequests    *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	malformedFields     prometheus.Counter
	skippedItems        prometheus.Counter
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

func (m *MetricsProvider) SetQueueSize(size int) {
	m.queueSize.Set(float64(size))
}

func (m *MetricsProvider) IncJobsTotal(outcome string) {
	m.jobsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveJobDuration(duration time.Duration) {
	m.jobDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncLockouts() {
	m.lockouts.Inc()
}

func (m *MetricsProvider) IncUpstreamRequests(endpoint string, status int) {
	m.upstreamRequests.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveUpstreamDuration(endpoint string, duration time.Duration) {
	m.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) AddParserDiagnostics(malformedFields, skippedItems int) {
	m.malformedFields.Add(float64(malformedFields))
	m.skippedItems.Add(float64(skippedItems))
}

func httpStatusBucket(code int) string {
	switch {
	case code <= 0:
		return "error"
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

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mulesync_requests_total",
			Help: "Total number of HTTP requests to the control API",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mulesync_request_duration_seconds",
			Help:    "Control API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mulesync_cache_hits_total",
			Help: "Total number of snapshot cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mulesync_cache_misses_total",
			Help: "Total number of snapshot cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mulesync_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		queueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mulesync_reload_queue_size",
			Help: "Number of reload jobs waiting in the queue",
		}),

		jobsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mulesync_reload_jobs_total",
			Help: "Reload jobs by outcome",
		}, []string{"outcome"}),

		jobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mulesync_reload_job_duration_seconds",
			Help:    "Reload job duration in seconds, excluding the dispatch wait",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 30},
		}),

		lockouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mulesync_reload_lockouts_total",
			Help: "Number of login lockouts reported by the game service",
		}),

		upstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mulesync_upstream_requests_total",
			Help: "Requests made to the game service",
		}, []string{"endpoint", "status"}),

		upstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mulesync_upstream_request_duration_seconds",
			Help:    "Game service request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		malformedFields: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mulesync_parser_malformed_fields_total",
			Help: "Numeric fields that were present but unreadable and defaulted to zero",
		}),

		skippedItems: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mulesync_parser_skipped_items_total",
			Help: "Item tokens dropped because their type id was unreadable",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (n *noopMetrics) IncCacheHits()                                     {}
func (n *noopMetrics) IncCacheMisses()                                   {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)        {}
func (n *noopMetrics) SetQueueSize(_ int)                                {}
func (n *noopMetrics) IncJobsTotal(_ string)                             {}
func (n *noopMetrics) ObserveJobDuration(_ time.Duration)                {}
func (n *noopMetrics) IncLockouts()                                      {}
func (n *noopMetrics) IncUpstreamRequests(_ string, _ int)               {}
func (n *noopMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) AddParserDiagnostics(_, _ int)                     {}
