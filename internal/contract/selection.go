package contract

import "github.com/alexanderramin/crudforge/internal/domain"

type SelectionResult struct {
	PackageID  string
	Roots      []*domain.Node
	EnabledIDs []int64
	Origin     Origin
}

type SaveResult struct {
	PackageID string
	IDs       []int64
	// Queued is set when the write was stored for a later sync.
	Queued bool
}
