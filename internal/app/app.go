// Package app wires configuration, storage, the backend client and the
// services into one container shared by the CLI and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/crudforge/internal/backend"
	"github.com/alexanderramin/crudforge/internal/config"
	"github.com/alexanderramin/crudforge/internal/db"
	"github.com/alexanderramin/crudforge/internal/logging"
	"github.com/alexanderramin/crudforge/internal/metrics"
	"github.com/alexanderramin/crudforge/internal/repository"
	"github.com/alexanderramin/crudforge/internal/server"
	"github.com/alexanderramin/crudforge/internal/service"
	"go.uber.org/zap"
)

// Services holds every wired dependency. Close releases the database.
type Services struct {
	Config config.Config
	Log    *zap.Logger

	Backend   backend.Client
	Snapshots repository.SnapshotRepo
	Outbox    repository.OutboxRepo

	Trees     service.TreeService
	Selection service.SelectionService
	Edit      service.EditService
	Sync      service.SyncService

	db *sql.DB
}

// New opens the local cache and builds the services for cfg. A nil log
// discards output.
func New(cfg config.Config, log *zap.Logger) (*Services, error) {
	log = logging.OrNop(log)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	client := backend.NewHTTPClient(cfg.Backend, backend.MultiObserver{
		backend.NewLogObserver(log.Named("backend")),
		metrics.BackendObserver{},
	})
	observers := []service.UseCaseObserver{
		service.NewLogUseCaseObserver(log.Named("service")),
		metrics.UseCaseObserver{},
	}

	snapshots := repository.NewSQLiteSnapshotRepo(database)
	outbox := repository.NewSQLiteOutboxRepo(database)
	source := service.NewCachedSource(client, snapshots, cfg.Offline)
	sink := service.NewQueuedSink(client, outbox, cfg.Offline)
	trees := service.NewTreeService(source, cfg.ActiveDefaults, observers...)

	return &Services{
		Config:    cfg,
		Log:       log,
		Backend:   client,
		Snapshots: snapshots,
		Outbox:    outbox,
		Trees:     trees,
		Selection: service.NewSelectionService(trees, source, sink, observers...),
		Edit:      service.NewEditService(sink, observers...),
		Sync:      service.NewSyncService(client, db.NewSQLiteUnitOfWork(database), outbox, cfg.Offline, observers...),
		db:        database,
	}, nil
}

// Server returns the HTTP server backed by these services.
func (s *Services) Server() *server.Server {
	return server.New(server.Deps{
		Trees:     s.Trees,
		Selection: s.Selection,
		Edit:      s.Edit,
		Sync:      s.Sync,
		Pinger:    s.Backend,
		Log:       s.Log.Named("http"),
	})
}

// Serve runs the HTTP server on addr until ctx is cancelled. An empty addr
// uses the configured one.
func (s *Services) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = s.Config.ServerAddr
	}
	return s.Server().ListenAndServe(ctx, addr)
}

// Close releases the local cache.
func (s *Services) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
