package contract

import (
	"time"

	"github.com/alexanderramin/crudforge/internal/domain"
)

// Origin says where the data behind a result came from.
type Origin string

const (
	OriginBackend  Origin = "backend"
	OriginSnapshot Origin = "snapshot"
)

type TreeRequest struct {
	Kind    domain.TreeKind
	ScopeID string
	View    domain.TreeView
}

func NewTreeRequest(kind domain.TreeKind) TreeRequest {
	return TreeRequest{
		Kind: kind,
		View: domain.ViewActive,
	}
}

type TreeResult struct {
	Kind      domain.TreeKind
	ScopeID   string
	View      domain.TreeView
	Roots     []*domain.Node
	NodeCount int
	Origin    Origin
	FetchedAt time.Time
}

// SearchHit is one fuzzy search match. Path holds the names of the node's
// ancestors, root first.
type SearchHit struct {
	Node  *domain.Node
	Path  []string
	Score int
	// MatchedIndexes are byte offsets into Node.Name.
	MatchedIndexes []int
}
