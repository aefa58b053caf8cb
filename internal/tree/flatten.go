package tree

import (
	"math"

	"github.com/alexanderramin/crudforge/internal/coerce"
	"github.com/alexanderramin/crudforge/internal/domain"
)

// Predicate selects nodes during flattening.
type Predicate func(*domain.Node) bool

// Enabled selects nodes marked enabled. It is the default predicate.
func Enabled(n *domain.Node) bool { return n.Enabled }

// Active selects nodes whose active flag is set.
func Active(n *domain.Node) bool { return n.IsActive }

// FlattenIDs walks every node (children of unselected parents included) and
// returns the numeric ids of those matching pred, deduplicated in first-seen
// order. Ids that are not integral numbers never match.
func FlattenIDs(roots []*domain.Node, pred Predicate) []int64 {
	if pred == nil {
		pred = Enabled
	}
	seen := make(map[int64]struct{})
	out := []int64{}
	Walk(roots, func(n *domain.Node, _ int) bool {
		if !pred(n) {
			return true
		}
		f, ok := coerce.ID(n.ID)
		if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
			return true
		}
		id := int64(f)
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
		return true
	})
	return out
}
