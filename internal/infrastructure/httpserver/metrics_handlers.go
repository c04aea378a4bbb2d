package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "The total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "The HTTP request latencies in seconds",
		},
		[]string{"method", "endpoint"},
	)

	cacheHits = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hits_total",
		Help: "Cumulative cache hits reported by the cache store",
	})

	cacheMisses = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_misses_total",
		Help: "Cumulative cache misses reported by the cache store",
	})

	cacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_entries",
		Help: "Current number of entries in the cache store",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(cacheHits)
	prometheus.MustRegister(cacheMisses)
	prometheus.MustRegister(cacheSize)
}

// GetRequestsTotal returns the requests total metric for middleware use
func GetRequestsTotal() *prometheus.CounterVec {
	return requestsTotal
}

// GetRequestDuration returns the request duration metric for middleware use
func GetRequestDuration() *prometheus.HistogramVec {
	return requestDuration
}

// LogMetricsInitialization logs that metrics have been initialized
func (s *Server) LogMetricsInitialization() {
	if s.logger != nil {
		s.logger.Info("Prometheus metrics initialized and registered")
	}
}

// metricsEndpoint refreshes the cache gauges and serves the registry.
func (s *Server) metricsEndpoint(c echo.Context) error {
	if s.cacheStore != nil {
		stats := s.cacheStore.Stats()
		cacheHits.Set(float64(stats.HitCount))
		cacheMisses.Set(float64(stats.MissCount))
		cacheSize.Set(float64(stats.Size))
	}
	s.metricsHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.Handler()
}
