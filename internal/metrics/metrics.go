package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records gateway metrics and exposes them over HTTP.
type Metrics interface {
	HTTPHandler() http.Handler
	ObserveProxyRequest(vendor string, status int, duration time.Duration)
	IncCacheLookup(result string)
	IncCatalogFetch(providerType string, errorKind string)
	IncUnmatchedRoute()
}

// Cache lookup results.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheShared = "shared"
)

// PrometheusMetrics is the Prometheus-backed Metrics implementation.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	proxyRequests  *prometheus.CounterVec
	proxyDuration  *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	catalogFetches *prometheus.CounterVec
	unmatched      prometheus.Counter
}

// NewPrometheusMetrics registers the gateway collectors on a fresh registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,
		proxyRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "model_gateway",
				Subsystem: "proxy",
				Name:      "requests_total",
				Help:      "Total number of proxied vendor requests",
			},
			[]string{"vendor", "status"},
		),
		proxyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "model_gateway",
				Subsystem: "proxy",
				Name:      "request_duration_seconds",
				Help:      "Time until the vendor response headers were received",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"vendor"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "model_gateway",
				Subsystem: "fetch",
				Name:      "cache_lookups_total",
				Help:      "Cached GET lookups by result (hit, miss, shared)",
			},
			[]string{"result"},
		),
		catalogFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "model_gateway",
				Subsystem: "catalog",
				Name:      "fetches_total",
				Help:      "Provider catalog fetches by provider type and error kind",
			},
			[]string{"provider_type", "error_kind"},
		),
		unmatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "model_gateway",
			Subsystem: "router",
			Name:      "unmatched_routes_total",
			Help:      "Requests that matched no gateway route",
		}),
	}
}

func (m *PrometheusMetrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PrometheusMetrics) ObserveProxyRequest(vendor string, status int, duration time.Duration) {
	m.proxyRequests.WithLabelValues(vendor, strconv.Itoa(status)).Inc()
	m.proxyDuration.WithLabelValues(vendor).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) IncCacheLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

// IncCatalogFetch counts a catalog fetch; errorKind is "" on success.
func (m *PrometheusMetrics) IncCatalogFetch(providerType string, errorKind string) {
	if errorKind == "" {
		errorKind = "none"
	}
	m.catalogFetches.WithLabelValues(providerType, errorKind).Inc()
}

func (m *PrometheusMetrics) IncUnmatchedRoute() {
	m.unmatched.Inc()
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (m *NoopMetrics) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func (m *NoopMetrics) ObserveProxyRequest(string, int, time.Duration) {}
func (m *NoopMetrics) IncCacheLookup(string)                          {}
func (m *NoopMetrics) IncCatalogFetch(string, string)                 {}
func (m *NoopMetrics) IncUnmatchedRoute()                             {}
