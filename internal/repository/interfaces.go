package repository

import (
	"context"

	"github.com/alexanderramin/crudforge/internal/domain"
)

// SnapshotRepo stores the last fetched body of each backend resource.
type SnapshotRepo interface {
	// Save inserts or replaces the snapshot for s.Path.
	Save(ctx context.Context, s *domain.Snapshot) error
	Get(ctx context.Context, path string) (*domain.Snapshot, error)
	List(ctx context.Context) ([]*domain.Snapshot, error)
	Delete(ctx context.Context, path string) error
}

// OutboxRepo queues writes made while the backend is unreachable.
type OutboxRepo interface {
	Enqueue(ctx context.Context, w *domain.PendingWrite) error
	// List returns pending writes oldest first.
	List(ctx context.Context) ([]*domain.PendingWrite, error)
	MarkFailed(ctx context.Context, id string, reason string) error
	Delete(ctx context.Context, id string) error
	// DeleteByPath drops every queued write to path and reports how many.
	DeleteByPath(ctx context.Context, path string) (int, error)
}
