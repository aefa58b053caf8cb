package tree

import (
	"github.com/alexanderramin/crudforge/internal/coerce"
	"github.com/alexanderramin/crudforge/internal/domain"
)

// IDSet is a numeric id lookup built once per marking pass.
type IDSet map[float64]struct{}

// NewIDSet normalizes ids to numbers. Ids that are not numeric are dropped
// since no node can match them.
func NewIDSet(ids []any) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		if f, ok := coerce.ID(id); ok {
			set[f] = struct{}{}
		}
	}
	return set
}

// Has reports whether id, read as a number, is in the set.
func (s IDSet) Has(id string) bool {
	f, ok := coerce.ID(id)
	if !ok {
		return false
	}
	_, hit := s[f]
	return hit
}

// MarkEnabled returns a new tree in which every node's Enabled flag says
// whether its id is among allowed. The input tree is not modified and
// children lists that are nil or empty are passed through as they were.
func MarkEnabled(roots []*domain.Node, allowed []any) []*domain.Node {
	set := NewIDSet(allowed)
	return rebuild(roots, func(c *domain.Node, _ bool) bool {
		c.Enabled = set.Has(c.ID)
		return false
	})
}

// EnabledIDs collects the ids of enabled nodes as a generic id list, the
// shape MarkEnabled accepts.
func EnabledIDs(roots []*domain.Node) []any {
	ids := FlattenIDs(roots, nil)
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
