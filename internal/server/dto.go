package server

import (
	"time"

	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
)

type treeResponse struct {
	Kind      domain.TreeKind `json:"kind"`
	View      domain.TreeView `json:"view"`
	Origin    contract.Origin `json:"origin"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Count     int             `json:"count"`
	Roots     []*domain.Node  `json:"roots"`
}

type searchHit struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Code  string   `json:"code,omitempty"`
	Path  []string `json:"path"`
	Score int      `json:"score"`
}

type selectionResponse struct {
	PackageID  string          `json:"packageId"`
	Origin     contract.Origin `json:"origin"`
	EnabledIDs []int64         `json:"enabledIds"`
	Roots      []*domain.Node  `json:"roots"`
}

// saveSelectionRequest accepts either a marked tree or a plain id list.
type saveSelectionRequest struct {
	Roots      []*domain.Node `json:"roots"`
	IDs        []any          `json:"ids"`
	FeatureIDs []any          `json:"feature_ids"`
}

type saveResponse struct {
	PackageID string  `json:"packageId"`
	IDs       []int64 `json:"ids"`
	Queued    bool    `json:"queued"`
}

type editResponse struct {
	Path    string         `json:"path"`
	Payload map[string]any `json:"payload"`
	Queued  bool           `json:"queued"`
	DryRun  bool           `json:"dryRun"`
}

type syncRequest struct {
	ModuleIDs  []string `json:"moduleIds"`
	PackageIDs []string `json:"packageIds"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type syncResponse struct {
	Resources []syncedResource `json:"resources"`
	Replayed  int              `json:"replayed"`
	Pending   int              `json:"pending"`
	Failures  []replayFailure  `json:"failures"`
}

type syncedResource struct {
	Path  string          `json:"path"`
	Kind  domain.TreeKind `json:"kind,omitempty"`
	Items int             `json:"items"`
}

type replayFailure struct {
	WriteID string `json:"writeId"`
	Path    string `json:"path"`
	Error   string `json:"error"`
}

func newSyncResponse(res *contract.SyncResponse) syncResponse {
	out := syncResponse{
		Resources: make([]syncedResource, 0, len(res.Resources)),
		Replayed:  res.Replayed,
		Pending:   res.Pending,
		Failures:  make([]replayFailure, 0, len(res.Failures)),
	}
	for _, r := range res.Resources {
		out.Resources = append(out.Resources, syncedResource{Path: r.Path, Kind: r.Kind, Items: r.Items})
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, replayFailure{WriteID: f.WriteID, Path: f.Path, Error: f.Error})
	}
	return out
}
