package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceLabel(t *testing.T) {
	tests := map[string]string{
		"/api/menus":                  "menus",
		"/api/menus/4":                "menus",
		"/api/packages/P1/features":   "packages",
		"/api/crud-modules/9/columns": "crud-modules",
		"/up":                         "up",
		"/api/features?x=1":           "features",
		"":                            "root",
	}
	for in, want := range tests {
		assert.Equal(t, want, ResourceLabel(in), in)
	}
}

func TestBackendObserver(t *testing.T) {
	obs := BackendObserver{}
	ok := testutil.ToFloat64(backendCallsTotal.WithLabelValues("GET", "menus", "success"))
	cached := testutil.ToFloat64(backendCallsTotal.WithLabelValues("GET", "menus", "cached"))
	failed := testutil.ToFloat64(backendCallsTotal.WithLabelValues("PUT", "menus", "error"))
	retries := testutil.ToFloat64(backendRetriesTotal.WithLabelValues("menus"))

	obs.OnCallComplete(backend.CallEvent{Method: "GET", Path: "/api/menus", Attempts: 1, Success: true})
	obs.OnCallComplete(backend.CallEvent{Method: "GET", Path: "/api/menus", Cached: true, Success: true})
	obs.OnCallComplete(backend.CallEvent{Method: "PUT", Path: "/api/menus/3", Attempts: 3, LatencyMs: 40})

	assert.Equal(t, ok+1, testutil.ToFloat64(backendCallsTotal.WithLabelValues("GET", "menus", "success")))
	assert.Equal(t, cached+1, testutil.ToFloat64(backendCallsTotal.WithLabelValues("GET", "menus", "cached")))
	assert.Equal(t, failed+1, testutil.ToFloat64(backendCallsTotal.WithLabelValues("PUT", "menus", "error")))
	assert.Equal(t, retries+2, testutil.ToFloat64(backendRetriesTotal.WithLabelValues("menus")))
}

func TestUseCaseObserver(t *testing.T) {
	obs := UseCaseObserver{}
	ctx := context.Background()
	before := testutil.ToFloat64(useCasesTotal.WithLabelValues("tree", "success"))

	obs.ObserveUseCase(ctx, service.UseCaseEvent{
		Name:     "tree",
		Success:  true,
		Duration: time.Millisecond,
		Fields:   map[string]any{"kind": "feature", "nodes": 17},
	})
	obs.ObserveUseCase(ctx, service.UseCaseEvent{
		Name:    "sync",
		Success: true,
		Fields:  map[string]any{"pending": 3},
	})

	assert.Equal(t, before+1, testutil.ToFloat64(useCasesTotal.WithLabelValues("tree", "success")))
	assert.Equal(t, float64(17), testutil.ToFloat64(treeNodes.WithLabelValues("feature")))
	assert.Equal(t, float64(3), testutil.ToFloat64(outboxPending))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Middleware(mux)
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /things/{id}", "418"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /things/{id}", "418")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	SetOutboxPending(5)
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "crudforge_outbox_pending 5"))
}
