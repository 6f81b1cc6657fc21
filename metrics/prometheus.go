package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lgc202/openai-kit/httpx"
)

const namespace = "openai"

// Collector contains the Prometheus metrics for outgoing API requests
type Collector struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	TransportErrors *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of API requests that received an HTTP response",
		}, []string{"endpoint", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time until response headers (or failure) for API requests",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		}, []string{"endpoint"}),
		TransportErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transport_errors_total",
			Help:      "Total number of API requests that failed without an HTTP response",
		}, []string{"endpoint"}),
	}
}

// AfterHook records one observation per request.
func (c *Collector) AfterHook() httpx.AfterHook {
	return func(req *http.Request, resp *http.Response, err error, dur time.Duration) {
		endpoint := req.URL.Path
		c.RequestDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
		if err != nil || resp == nil {
			c.TransportErrors.WithLabelValues(endpoint).Inc()
			return
		}
		c.Requests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
