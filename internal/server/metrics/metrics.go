// Package metrics holds the Prometheus collectors of the upload server.
// Each Metrics owns its registry so several servers can coexist in one
// process (tests do).
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

const namespace = "uploader"

// Upload results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type Metrics struct {
	registry        *prometheus.Registry
	uploadsTotal    *prometheus.CounterVec
	uploadedBytes   prometheus.Counter
	listRequests    prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload requests by result",
		}, []string{"result"}),
		uploadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes stored by successful uploads",
		}),
		listRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "list_requests_total",
			Help:      "File list requests",
		}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveUpload counts one upload; size is added only for ResultOK.
func (m *Metrics) ObserveUpload(result string, size int64) {
	m.uploadsTotal.WithLabelValues(result).Inc()
	if result == ResultOK && size > 0 {
		m.uploadedBytes.Add(float64(size))
	}
}

func (m *Metrics) ObserveList() {
	m.listRequests.Inc()
}

// ObserveRequest records latency; route is the registered pattern, not the
// raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
