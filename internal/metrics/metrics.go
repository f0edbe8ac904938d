package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the service and storage layers report to.
type Recorder interface {
	RecordLogin(success bool)
	RecordBlobOp(op string, err error)
}

type Collector struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	logins       *prometheus.CounterVec
	blobOps      *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hostbuddy_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hostbuddy_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hostbuddy_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		blobOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hostbuddy_blob_operations_total",
			Help: "Blob storage calls by operation and outcome.",
		}, []string{"op", "outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.logins,
		c.blobOps,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordLogin(success bool) {
	c.logins.WithLabelValues(outcome(success)).Inc()
}

func (c *Collector) RecordBlobOp(op string, err error) {
	c.blobOps.WithLabelValues(op, outcome(err == nil)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything; tests and disabled metrics use it.
type Nop struct{}

func (Nop) RecordLogin(bool)           {}
func (Nop) RecordBlobOp(string, error) {}
