package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/repository"
)

// Fetched is a decoded backend resource and where it came from.
type Fetched struct {
	Body      any
	Origin    contract.Origin
	FetchedAt time.Time
}

// Source reads backend resources.
type Source interface {
	Fetch(ctx context.Context, path string) (*Fetched, error)
}

// Sink writes backend resources. queued reports that the write was stored
// for a later sync instead of being sent.
type Sink interface {
	Write(ctx context.Context, path string, body any) (queued bool, err error)
}

type cachedSource struct {
	remote    backend.Client
	snapshots repository.SnapshotRepo
	offline   bool
	now       func() time.Time
}

// NewCachedSource reads from remote and keeps a snapshot of every body it
// gets. When the backend is unreachable, or in offline mode, snapshots
// answer instead.
func NewCachedSource(remote backend.Client, snapshots repository.SnapshotRepo, offline bool) Source {
	return &cachedSource{
		remote:    remote,
		snapshots: snapshots,
		offline:   offline,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *cachedSource) Fetch(ctx context.Context, path string) (*Fetched, error) {
	if s.offline || s.remote == nil {
		f, err := s.fromSnapshot(ctx, path)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no snapshot of %s, run sync first", ErrOffline, path)
		}
		return f, err
	}

	body, err := s.remote.Get(ctx, path)
	if err != nil {
		if !backend.Unreachable(err) {
			return nil, err
		}
		f, snapErr := s.fromSnapshot(ctx, path)
		if snapErr != nil {
			return nil, err
		}
		return f, nil
	}

	now := s.now()
	if s.snapshots != nil {
		if data, mErr := json.Marshal(body); mErr == nil {
			// Snapshot failures do not fail the fetch.
			_ = s.snapshots.Save(ctx, &domain.Snapshot{
				Path:      path,
				Kind:      backend.KindOf(path),
				Body:      data,
				FetchedAt: now,
			})
		}
	}
	return &Fetched{Body: body, Origin: contract.OriginBackend, FetchedAt: now}, nil
}

func (s *cachedSource) fromSnapshot(ctx context.Context, path string) (*Fetched, error) {
	if s.snapshots == nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, repository.ErrNotFound)
	}
	snap, err := s.snapshots.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	body, err := backend.Decode(snap.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return &Fetched{Body: body, Origin: contract.OriginSnapshot, FetchedAt: snap.FetchedAt}, nil
}

type queuedSink struct {
	remote  backend.Client
	outbox  repository.OutboxRepo
	offline bool
}

// NewQueuedSink sends writes to remote. In offline mode, or when the
// backend is unreachable, writes are queued in outbox for sync. A write
// that reaches the backend drops older queued writes to the same path.
func NewQueuedSink(remote backend.Client, outbox repository.OutboxRepo, offline bool) Sink {
	return &queuedSink{remote: remote, outbox: outbox, offline: offline}
}

func (s *queuedSink) Write(ctx context.Context, path string, body any) (bool, error) {
	if !s.offline && s.remote != nil {
		err := s.remote.Put(ctx, path, body)
		if err == nil {
			return false, s.dropSuperseded(ctx, path)
		}
		if !backend.Unreachable(err) || s.outbox == nil {
			return false, err
		}
	}
	if s.outbox == nil {
		return false, fmt.Errorf("%w: cannot queue write to %s", ErrOffline, path)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("encoding write body: %w", err)
	}
	if err := s.outbox.Enqueue(ctx, &domain.PendingWrite{
		Method: http.MethodPut,
		Path:   path,
		Body:   data,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// dropSuperseded removes queued writes to path once a newer body for it has
// been sent, so a later sync cannot replay stale data over it.
func (s *queuedSink) dropSuperseded(ctx context.Context, path string) error {
	if s.outbox == nil {
		return nil
	}
	if _, err := s.outbox.DeleteByPath(ctx, path); err != nil {
		return fmt.Errorf("write to %s sent but queued writes remain: %w", path, err)
	}
	return nil
}
