package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the gateway on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsActive   *prometheus.GaugeVec
	requestDurations *prometheus.HistogramVec
	outboundRequests *prometheus.CounterVec
	outboundDuration *prometheus.HistogramVec
}

// New creates and registers the inbound and outbound HTTP collectors under namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_active",
				Help:      "The count of current active http requests, partitioned by method and route",
			},
			[]string{"method", "route"}),
		requestDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Http request latency distributions, partitioned by method, route and status code",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "code"}),
		outboundRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_store_requests_total",
				Help:      "Requests sent to the state store, partitioned by method and status code",
			},
			[]string{"method", "code"}),
		outboundDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "state_store_request_duration_seconds",
				Help:      "State store request latency distributions, partitioned by method",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsActive,
		m.requestDurations,
		m.outboundRequests,
		m.outboundDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// InstrumentTransport counts and times every request sent through next.
// Transport failures are not counted.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(
		m.outboundRequests,
		promhttp.InstrumentRoundTripperDuration(m.outboundDuration, next),
	)
}

// RequestStarted marks an inbound request as active and returns the func that
// records its outcome.
func (m *Metrics) RequestStarted(method, route string) func(statusCode int) {
	start := time.Now()
	m.requestsActive.WithLabelValues(method, route).Inc()

	return func(statusCode int) {
		m.requestDurations.WithLabelValues(method, route, strconv.Itoa(statusCode)).
			Observe(time.Since(start).Seconds())
		m.requestsActive.WithLabelValues(method, route).Dec()
	}
}
