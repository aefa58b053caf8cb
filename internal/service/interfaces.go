package service

import (
	"context"

	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
)

type TreeService interface {
	Tree(ctx context.Context, req contract.TreeRequest) (*contract.TreeResult, error)
	Search(ctx context.Context, req contract.TreeRequest, query string, limit int) ([]contract.SearchHit, error)
}

type SelectionService interface {
	// Marked returns the feature tree with Enabled set from the package's
	// current selection.
	Marked(ctx context.Context, packageID string) (*contract.SelectionResult, error)
	// Save writes the enabled ids of roots as the package's selection.
	Save(ctx context.Context, packageID string, roots []*domain.Node) (*contract.SaveResult, error)
	// SetIDs replaces the selection with the given ids, keeping only ids
	// present in the feature tree.
	SetIDs(ctx context.Context, packageID string, ids []any) (*contract.SaveResult, error)
}

type EditService interface {
	Update(ctx context.Context, req contract.EditRequest) (*contract.EditResult, error)
}

type SyncService interface {
	Sync(ctx context.Context, req contract.SyncRequest) (*contract.SyncResponse, error)
}
