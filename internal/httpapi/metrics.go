package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visiond",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visiond",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "visiond",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "In-flight HTTP requests",
	})

	modelLoadProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "visiond",
		Subsystem: "model",
		Name:      "load_progress_percent",
		Help:      "Model load progress in percent",
	})

	modelReady = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "visiond",
		Subsystem: "model",
		Name:      "ready",
		Help:      "1 once the model is loaded, 0 otherwise",
	})

	modelLoadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "visiond",
		Subsystem: "model",
		Name:      "load_failures_total",
		Help:      "Total failed model loads",
	})

	classificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visiond",
			Name:      "classifications_total",
			Help:      "Classifications by result (ok, error, superseded)",
		},
		[]string{"result"},
	)

	uploadBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "visiond",
		Name:      "upload_bytes",
		Help:      "Size of ingested uploads in bytes",
		Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 7),
	})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight,
		modelLoadProgress, modelReady, modelLoadFailures, classificationsTotal, uploadBytes)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		next.ServeHTTP(sr, r)

		// the route pattern is only known after chi routed the request
		path := routePattern(r)
		statusLabel := strconv.Itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, r.Method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, statusLabel).Observe(dur)
	})
}

// unmatchedRoute labels requests that matched no route, so arbitrary paths
// cannot create new series.
const unmatchedRoute = "unmatched"

// routePattern returns the chi route pattern, or unmatchedRoute when the
// request did not match one.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
