// Package perf records request, query and authentication metrics in a
// private Prometheus registry.
package perf

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trainerweb"

// Collector owns the metric vectors. A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.HistogramVec
	queries  *prometheus.HistogramVec
	auth     *prometheus.CounterVec
	count    int64 // observations ever recorded
}

// NewCollector creates a collector with its own registry, including the
// Go runtime and process collectors.
// PRE: none
// POST: Returns a collector whose Handler serves all registered metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		queries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database call latency by operation.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Login and session outcomes.",
		}, []string{"event"}),
	}
	c.registry.MustRegister(
		c.requests, c.queries, c.auth,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveRequest records one HTTP request.
// PRE: route is a route pattern, not a raw path, to bound label cardinality
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	atomic.AddInt64(&c.count, 1)
}

// ObserveQuery records one database call. It satisfies storage.QueryObserver.
func (c *Collector) ObserveQuery(op string, d time.Duration) {
	if c == nil {
		return
	}
	c.queries.WithLabelValues(op).Observe(d.Seconds())
	atomic.AddInt64(&c.count, 1)
}

// AuthEvent counts a login or session outcome such as login_success.
func (c *Collector) AuthEvent(event string) {
	if c == nil {
		return
	}
	c.auth.WithLabelValues(event).Inc()
}

// TotalRecorded returns the number of request and query observations.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return atomic.LoadInt64(&c.count)
}

// Registry exposes the underlying registry for tests and extra collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
