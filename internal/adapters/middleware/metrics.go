package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics counts and times requests served by the ops listener
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	known           map[string]bool
}

// NewHTTPMetrics registers the request metrics with reg. Paths outside routes are
// reported as "other" to keep label cardinality bounded.
func NewHTTPMetrics(reg prometheus.Registerer, routes ...string) *HTTPMetrics {
	factory := promauto.With(reg)
	m := &HTTPMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		known: make(map[string]bool, len(routes)),
	}
	for _, r := range routes {
		m.known[r] = true
	}
	return m
}

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rec.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Wrap measures the time and status of each request
func (m *HTTPMetrics) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(recorder, r)

		path := r.URL.Path
		if !m.known[path] {
			path = "other"
		}
		status := strconv.Itoa(recorder.statusCode)
		m.requestsTotal.WithLabelValues(path, r.Method, status).Inc()
		m.requestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
