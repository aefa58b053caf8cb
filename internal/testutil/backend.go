package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeBackend is an in-process stand-in for the CRUD REST backend. GET
// serves canned JSON per path, PUT records the body, and /up answers 200.
type FakeBackend struct {
	URL string

	mu     sync.Mutex
	bodies map[string]any
	puts   map[string]string
	fail   map[string]int
}

// NewFakeBackend starts a FakeBackend serving bodies. It is closed when
// the test completes.
func NewFakeBackend(t *testing.T, bodies map[string]any) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{
		bodies: map[string]any{},
		puts:   map[string]string{},
		fail:   map[string]int{},
	}
	for path, body := range bodies {
		fb.bodies[path] = body
	}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	fb.URL = srv.URL
	return fb
}

// Serve sets the body returned for path.
func (b *FakeBackend) Serve(path string, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[path] = body
}

// Fail makes every request to path answer with status.
func (b *FakeBackend) Fail(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[path] = status
}

// Put returns the last body written to path, or "".
func (b *FakeBackend) Put(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts[path]
}

func (b *FakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if status, ok := b.fail[r.URL.Path]; ok {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"message":"forced failure"}`)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if r.URL.Path == "/up" {
			w.WriteHeader(http.StatusOK)
			return
		}
		body, ok := b.bodies[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"no such resource"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.puts[r.URL.Path] = string(data)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
