// Package metrics exposes the gateway's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bodega_gateway"

// Registry owns every collector on a private prometheus registry so tests can
// build as many as they like.
type Registry struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamTotal    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	authMissingTotal *prometheus.CounterVec
}

func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Inbound gateway requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Inbound request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Calls relayed to the inventory backend by route and upstream status; status \"unreachable\" means no response.",
		}, []string{"route", "status"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Round trip time of relayed calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		authMissingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_missing_total",
			Help:      "Requests rejected before forwarding because no bearer credential was sent.",
		}, []string{"method"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requestsTotal,
		r.requestDuration,
		r.upstreamTotal,
		r.upstreamDuration,
		r.authMissingTotal,
	)
	return r
}

func (r *Registry) ObserveRequest(method, route, status string, elapsed time.Duration) {
	r.requestsTotal.WithLabelValues(method, route, status).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (r *Registry) ObserveUpstream(route string, status int, elapsed time.Duration) {
	label := "unreachable"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.upstreamTotal.WithLabelValues(route, label).Inc()
	r.upstreamDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (r *Registry) AuthMissing(method string) {
	r.authMissingTotal.WithLabelValues(method).Inc()
}

// Gatherer is exposed for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
