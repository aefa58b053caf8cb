package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/db"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/repository"
	"github.com/alexanderramin/crudforge/internal/tree"
	"golang.org/x/sync/errgroup"
)

// syncConcurrency bounds parallel backend fetches during a sync.
const syncConcurrency = 4

type syncService struct {
	remote   backend.Client
	uow      db.UnitOfWork
	outbox   repository.OutboxRepo
	offline  bool
	now      func() time.Time
	observer UseCaseObserver
}

// NewSyncService refreshes snapshots from remote and replays queued writes.
func NewSyncService(remote backend.Client, uow db.UnitOfWork, outbox repository.OutboxRepo, offline bool, observers ...UseCaseObserver) SyncService {
	return &syncService{
		remote:   remote,
		uow:      uow,
		outbox:   outbox,
		offline:  offline,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *syncService) Sync(ctx context.Context, req contract.SyncRequest) (resp *contract.SyncResponse, err error) {
	fields := map[string]any{"modules": len(req.ModuleIDs), "packages": len(req.PackageIDs)}
	defer observe(ctx, s.observer, "sync", time.Now().UTC(), fields, &err)

	if s.offline || s.remote == nil {
		return nil, fmt.Errorf("%w: sync needs the backend", ErrOffline)
	}

	paths, err := syncPaths(req)
	if err != nil {
		return nil, err
	}

	resp = &contract.SyncResponse{Resources: []contract.SyncedResource{}, Failures: []contract.ReplayFailure{}}

	// Queued writes go first so the refreshed snapshots include them.
	if err := s.replay(ctx, resp); err != nil {
		return nil, err
	}

	snaps, err := s.fetchAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSnapshotRepo(tx)
		for _, snap := range snaps {
			if err := repo.Save(ctx, snap.snapshot); err != nil {
				return fmt.Errorf("saving snapshot %s: %w", snap.snapshot.Path, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		resp.Resources = append(resp.Resources, contract.SyncedResource{
			Path:  snap.snapshot.Path,
			Kind:  snap.snapshot.Kind,
			Items: snap.items,
		})
	}

	fields["resources"] = len(resp.Resources)
	fields["replayed"] = resp.Replayed
	fields["pending"] = resp.Pending
	return resp, nil
}

// syncPaths lists the resources a sync refreshes, menus and features first.
func syncPaths(req contract.SyncRequest) ([]string, error) {
	paths := []string{}
	for _, kind := range []domain.TreeKind{domain.TreeMenu, domain.TreeFeature} {
		p, err := backend.TreePath(kind, "")
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	for _, id := range req.ModuleIDs {
		p, err := backend.TreePath(domain.TreeColumn, id)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	for _, id := range req.PackageIDs {
		if id == "" {
			return nil, ErrPackageIDRequired
		}
		paths = append(paths, backend.PackageFeaturesPath(id))
	}
	return paths, nil
}

type fetchedSnapshot struct {
	snapshot *domain.Snapshot
	items    int
}

// fetchAll gets every path concurrently. Results keep the order of paths.
func (s *syncService) fetchAll(ctx context.Context, paths []string) ([]fetchedSnapshot, error) {
	out := make([]fetchedSnapshot, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			body, err := s.remote.Get(gctx, path)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", path, err)
			}
			data, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", path, err)
			}
			kind := backend.KindOf(path)
			out[i] = fetchedSnapshot{
				snapshot: &domain.Snapshot{Path: path, Kind: kind, Body: data, FetchedAt: s.now()},
				items:    itemCount(kind, body),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func itemCount(kind domain.TreeKind, body any) int {
	if sc, ok := tree.SchemaFor(kind); ok {
		return tree.Count(tree.MapTree(tree.ExtractRawNodes(body), sc))
	}
	return len(tree.ExtractIDs(body))
}

// replay sends queued writes oldest first. An unreachable backend stops
// the replay and leaves the rest queued; other errors are recorded on the
// write and the replay moves on. A write that goes through supersedes the
// earlier rejected writes to its path, which are dropped.
func (s *syncService) replay(ctx context.Context, resp *contract.SyncResponse) error {
	if s.outbox == nil {
		return nil
	}
	writes, err := s.outbox.List(ctx)
	if err != nil {
		return fmt.Errorf("listing queued writes: %w", err)
	}

	rejected := map[string][]string{}
	for i, w := range writes {
		sendErr := s.send(ctx, w)
		if sendErr == nil {
			if err := s.outbox.Delete(ctx, w.ID); err != nil {
				return err
			}
			resp.Replayed++
			if err := s.dropRejected(ctx, resp, rejected[w.Path]); err != nil {
				return err
			}
			delete(rejected, w.Path)
			continue
		}
		if backend.Unreachable(sendErr) {
			resp.Pending += len(writes) - i
			return fmt.Errorf("replaying queued writes: %w", sendErr)
		}
		if err := s.outbox.MarkFailed(ctx, w.ID, sendErr.Error()); err != nil {
			return err
		}
		rejected[w.Path] = append(rejected[w.Path], w.ID)
		resp.Pending++
		resp.Failures = append(resp.Failures, contract.ReplayFailure{
			WriteID: w.ID,
			Path:    w.Path,
			Error:   sendErr.Error(),
		})
	}
	return nil
}

func (s *syncService) dropRejected(ctx context.Context, resp *contract.SyncResponse, ids []string) error {
	for _, id := range ids {
		if err := s.outbox.Delete(ctx, id); err != nil {
			return err
		}
		resp.Pending--
		resp.Failures = slices.DeleteFunc(resp.Failures, func(f contract.ReplayFailure) bool {
			return f.WriteID == id
		})
	}
	return nil
}

func (s *syncService) send(ctx context.Context, w *domain.PendingWrite) error {
	if w.Method != http.MethodPut {
		return fmt.Errorf("unsupported queued method %s", w.Method)
	}
	body, err := backend.Decode(w.Body)
	if err != nil {
		return fmt.Errorf("decoding queued body: %w", err)
	}
	return s.remote.Put(ctx, w.Path, body)
}
