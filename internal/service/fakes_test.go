package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/repository"
	"github.com/alexanderramin/crudforge/internal/testutil"
)

type putCall struct {
	Path string
	Body any
}

// fakeClient serves canned bodies per path. Bodies go through JSON so they
// carry the same types a real response would.
type fakeClient struct {
	mu      sync.Mutex
	bodies  map[string]any
	getErr  error
	putErr  map[string]error
	putFunc func(path string, body any) error
	gets    []string
	puts    []putCall
	pingErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{bodies: map[string]any{}, putErr: map[string]error{}}
}

func (f *fakeClient) serve(path string, body any) {
	decoded, err := backend.Decode(testutil.JSON(body))
	if err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[path] = decoded
}

func (f *fakeClient) failPuts(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.putErr, path)
		return
	}
	f.putErr[path] = err
}

func (f *fakeClient) failGets(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

func (f *fakeClient) Get(_ context.Context, path string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, path)
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.bodies[path]
	if !ok {
		return nil, &backend.StatusError{Method: "GET", Path: path, Status: 404, Message: "not found"}
	}
	return body, nil
}

func (f *fakeClient) Put(_ context.Context, path string, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.putErr[path]; err != nil {
		return err
	}
	if f.putFunc != nil {
		if err := f.putFunc(path, body); err != nil {
			return err
		}
	}
	f.puts = append(f.puts, putCall{Path: path, Body: body})
	return nil
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) putCalls() []putCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]putCall(nil), f.puts...)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.events) == 0 {
		return UseCaseEvent{}
	}
	return o.events[len(o.events)-1]
}

type fixture struct {
	db        *sql.DB
	client    *fakeClient
	snapshots repository.SnapshotRepo
	outbox    repository.OutboxRepo
	observer  *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &fixture{
		db:        database,
		client:    newFakeClient(),
		snapshots: repository.NewSQLiteSnapshotRepo(database),
		outbox:    repository.NewSQLiteOutboxRepo(database),
		observer:  &recordingObserver{},
	}
}

func (f *fixture) source(offline bool) Source {
	return NewCachedSource(f.client, f.snapshots, offline)
}

func (f *fixture) sink(offline bool) Sink {
	return NewQueuedSink(f.client, f.outbox, offline)
}

func (f *fixture) trees(offline bool) TreeService {
	return NewTreeService(f.source(offline), nil, f.observer)
}

// featureCatalog is a two-category feature tree: 1[10,11[12]], 2[20].
func featureCatalog() map[string]any {
	return map[string]any{"data": []any{
		testutil.RawNode(1, "Billing",
			testutil.RawNode(10, "Invoices"),
			testutil.RawNode(11, "Payments", testutil.RawNode(12, "Refunds")),
		),
		testutil.RawNode(2, "Reports", testutil.RawNode(20, "Exports")),
	}}
}
