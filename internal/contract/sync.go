package contract

import "github.com/alexanderramin/crudforge/internal/domain"

type SyncRequest struct {
	ModuleIDs  []string
	PackageIDs []string
}

type SyncedResource struct {
	Path string
	Kind domain.TreeKind
	// Items is the node count for trees and the id count for selections.
	Items int
}

type ReplayFailure struct {
	WriteID string
	Path    string
	Error   string
}

type SyncResponse struct {
	Resources []SyncedResource
	Replayed  int
	Pending   int
	Failures  []ReplayFailure
}
