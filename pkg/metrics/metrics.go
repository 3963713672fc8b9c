package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers Prometheus metrics for the request path and the
// geolocation flow
type Collector struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	requestLatency prometheus.Histogram
	geocodeLookups *prometheus.CounterVec
	sosCaptures    *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics on a private
// registry
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthmate_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "healthmate_request_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		geocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthmate_geocode_lookups_total",
			Help: "Reverse-geocode lookups by outcome",
		}, []string{"outcome"}),
		sosCaptures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healthmate_sos_captures_total",
			Help: "Emergency SOS location captures by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		c.requests,
		c.requestLatency,
		c.geocodeLookups,
		c.sosCaptures,
	)

	return c
}

// RecordRequest records one served HTTP request
func (c *Collector) RecordRequest(route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

// RecordGeocodeLookup records a reverse-geocode outcome ("ok" or "degraded")
func (c *Collector) RecordGeocodeLookup(outcome string) {
	c.geocodeLookups.WithLabelValues(outcome).Inc()
}

// RecordSOSCapture records an SOS capture outcome ("ok" or the failure kind)
func (c *Collector) RecordSOSCapture(outcome string) {
	c.sosCaptures.WithLabelValues(outcome).Inc()
}

// Handler exposes the /metrics endpoint for this collector's registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
