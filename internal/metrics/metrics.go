package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	CatalogRequests *prometheus.CounterVec
	CatalogDuration *prometheus.HistogramVec
	Likes           *prometheus.CounterVec
	Logins          *prometheus.CounterVec
}

// New creates the collectors on a private registry, alongside the Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		CatalogRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "The total number of album catalog API calls",
		}, []string{"endpoint", "outcome"}),
		CatalogDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "The duration of album catalog API calls in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Likes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "likes_total",
			Help: "The total number of like and unlike actions",
		}, []string{"action"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "logins_total",
			Help: "The total number of login attempts",
		}, []string{"outcome"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
