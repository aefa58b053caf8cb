package tree

import "github.com/alexanderramin/crudforge/internal/domain"

type filterFrame struct {
	src []*domain.Node
	dst *[]*domain.Node
}

// prune copies the tree keeping only nodes for which keep holds. A node
// that is dropped takes its whole subtree with it.
func prune(roots []*domain.Node, keep func(*domain.Node) bool) []*domain.Node {
	out := []*domain.Node{}
	stack := []filterFrame{{src: roots, dst: &out}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range f.src {
			if n == nil || !keep(n) {
				continue
			}
			c := n.ShallowCopy()
			if n.Children != nil {
				c.Children = make([]*domain.Node, 0, len(n.Children))
				if len(n.Children) > 0 {
					stack = append(stack, filterFrame{src: n.Children, dst: &c.Children})
				}
			}
			*f.dst = append(*f.dst, c)
		}
	}
	return out
}

// ActiveView drops soft-deleted nodes together with their subtrees.
func ActiveView(roots []*domain.Node) []*domain.Node {
	return prune(roots, func(n *domain.Node) bool { return !n.IsDeleted() })
}

// TrashView returns the topmost soft-deleted nodes, each with its full
// subtree, as the roots of a new tree.
func TrashView(roots []*domain.Node) []*domain.Node {
	var tops []*domain.Node
	Walk(roots, func(n *domain.Node, _ int) bool {
		if n.IsDeleted() {
			tops = append(tops, n)
			return false
		}
		return true
	})
	return Clone(tops)
}

// ApplyView selects the tree for the given view. ViewAll returns a copy of
// the tree including deleted nodes.
func ApplyView(roots []*domain.Node, view domain.TreeView) []*domain.Node {
	switch view {
	case domain.ViewTrash:
		return TrashView(roots)
	case domain.ViewAll:
		return Clone(roots)
	default:
		return ActiveView(roots)
	}
}
