package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the gateway.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	pollAttempts     *prometheus.CounterVec
	generationTotal  *prometheus.CounterVec
	refreshTicks     *prometheus.CounterVec
	notifications    prometheus.Counter
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
}

// NewMetricsService registers the gateway's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of scheduling-service round trips",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	pollAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_poll_attempts_total",
		Help: "Task status polls issued, by transport outcome",
	}, []string{"outcome"})

	generationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_tasks_total",
		Help: "Generation tasks reaching a terminal state",
	}, []string{"state"})

	refreshTicks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "refresh_ticks_total",
		Help: "Background refresh ticks, by resource and outcome",
	}, []string{"resource", "outcome"})

	notifications := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refresh_notifications_total",
		Help: "Transient refresh notifications emitted",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration,
		requestTotal,
		upstreamDuration,
		pollAttempts,
		generationTotal,
		refreshTicks,
		notifications,
		cacheHits,
		cacheMisses,
		goroutines,
	)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		pollAttempts:     pollAttempts,
		generationTotal:  generationTotal,
		refreshTicks:     refreshTicks,
		notifications:    notifications,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
	}
}

// Handler serves the Prometheus exposition endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	s.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveUpstreamRequest records one scheduling-service round trip.
func (s *MetricsService) ObserveUpstreamRequest(endpoint string, status int, duration time.Duration) {
	s.upstreamDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordPollAttempt counts one task status poll.
func (s *MetricsService) RecordPollAttempt(ok bool) {
	if ok {
		s.pollAttempts.WithLabelValues("ok").Inc()
	} else {
		s.pollAttempts.WithLabelValues("error").Inc()
	}
}

// RecordGenerationOutcome counts one terminal generation state.
func (s *MetricsService) RecordGenerationOutcome(state string) {
	s.generationTotal.WithLabelValues(state).Inc()
}

// RecordRefreshTick counts one background refresh tick.
func (s *MetricsService) RecordRefreshTick(resource string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	s.refreshTicks.WithLabelValues(resource, outcome).Inc()
}

// RecordNotification counts one emitted refresh notification.
func (s *MetricsService) RecordNotification() {
	s.notifications.Inc()
}

// RecordCacheOperation counts a cache lookup.
func (s *MetricsService) RecordCacheOperation(hit bool) {
	if hit {
		s.cacheHits.Inc()
	} else {
		s.cacheMisses.Inc()
	}
}
