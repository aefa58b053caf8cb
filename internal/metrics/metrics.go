// Package metrics provides Prometheus metrics for crudforge.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/logging"
	"github.com/alexanderramin/crudforge/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crudforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crudforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Backend metrics
	backendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crudforge_backend_calls_total",
			Help: "Total backend calls by resource and outcome",
		},
		[]string{"method", "resource", "outcome"},
	)

	backendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crudforge_backend_call_duration_seconds",
			Help:    "Backend call latency in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "resource"},
	)

	backendRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crudforge_backend_retries_total",
			Help: "Total backend retry attempts",
		},
		[]string{"resource"},
	)

	// Use case metrics
	useCasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crudforge_use_cases_total",
			Help: "Total service use case executions",
		},
		[]string{"use_case", "result"},
	)

	useCaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crudforge_use_case_duration_seconds",
			Help:    "Service use case duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"use_case"},
	)

	// Tree metrics
	treeNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crudforge_tree_nodes",
			Help: "Node count of the last built tree per kind",
		},
		[]string{"kind"},
	)

	outboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crudforge_outbox_pending",
			Help: "Queued writes left after the last sync",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetTreeNodes sets the node count for a tree kind.
func SetTreeNodes(kind string, count int) {
	treeNodes.WithLabelValues(kind).Set(float64(count))
}

// SetOutboxPending sets the number of queued writes.
func SetOutboxPending(count int) {
	outboxPending.Set(float64(count))
}

// Middleware returns HTTP middleware that records request metrics. Requests
// are labelled by their matched mux pattern to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &logging.StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(rw, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		RecordHTTPRequest(r.Method, route, rw.Status, time.Since(start))
	})
}

// ResourceLabel reduces a backend path to its top resource name, so
// "/api/menus/4" and "/api/menus" share the label "menus".
func ResourceLabel(path string) string {
	rest := strings.TrimPrefix(path, "/")
	rest = strings.TrimPrefix(rest, "api/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "root"
	}
	return rest
}

// BackendObserver records backend client calls.
type BackendObserver struct{}

func (BackendObserver) OnCallComplete(event backend.CallEvent) {
	resource := ResourceLabel(event.Path)
	outcome := "success"
	switch {
	case event.Cached:
		outcome = "cached"
	case !event.Success:
		outcome = "error"
	}
	backendCallsTotal.WithLabelValues(event.Method, resource, outcome).Inc()
	if event.Cached {
		return
	}
	backendCallDuration.WithLabelValues(event.Method, resource).Observe(float64(event.LatencyMs) / 1000)
	if event.Attempts > 1 {
		backendRetriesTotal.WithLabelValues(resource).Add(float64(event.Attempts - 1))
	}
}

// UseCaseObserver records service use cases. Tree builds also update the
// node gauge and syncs the outbox gauge.
type UseCaseObserver struct{}

func (UseCaseObserver) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	result := "success"
	if !event.Success {
		result = "error"
	}
	useCasesTotal.WithLabelValues(event.Name, result).Inc()
	useCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())

	if !event.Success {
		return
	}
	switch event.Name {
	case "tree":
		kind, _ := event.Fields["kind"].(string)
		if n, ok := event.Fields["nodes"].(int); ok && kind != "" {
			SetTreeNodes(kind, n)
		}
	case "sync":
		if n, ok := event.Fields["pending"].(int); ok {
			SetOutboxPending(n)
		}
	}
}

var (
	_ backend.Observer        = BackendObserver{}
	_ service.UseCaseObserver = UseCaseObserver{}
)
