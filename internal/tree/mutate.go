package tree

import "github.com/alexanderramin/crudforge/internal/domain"

type rebuildFrame struct {
	src       []*domain.Node
	dst       []*domain.Node
	inherited bool
}

// rebuild copies every node of the tree, letting fn adjust each copy. fn
// receives the flag returned for the node's parent and returns the flag for
// its children. Empty children lists keep their nil-ness.
func rebuild(roots []*domain.Node, fn func(c *domain.Node, inherited bool) bool) []*domain.Node {
	out := make([]*domain.Node, len(roots))
	stack := []rebuildFrame{{src: roots, dst: out}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, n := range f.src {
			if n == nil {
				continue
			}
			c := n.ShallowCopy()
			pass := fn(c, f.inherited)
			switch {
			case len(n.Children) > 0:
				c.Children = make([]*domain.Node, len(n.Children))
				stack = append(stack, rebuildFrame{src: n.Children, dst: c.Children, inherited: pass})
			case n.Children != nil:
				c.Children = []*domain.Node{}
			}
			f.dst[i] = c
		}
	}
	return out
}

// Clone returns a deep copy of the tree.
func Clone(roots []*domain.Node) []*domain.Node {
	return rebuild(roots, func(*domain.Node, bool) bool { return false })
}

// Update returns a copy of the tree in which fn has been applied to every
// node with the given id. The input tree is left untouched. The boolean
// reports whether any node matched.
func Update(roots []*domain.Node, id string, fn func(*domain.Node)) ([]*domain.Node, bool) {
	matched := false
	out := rebuild(roots, func(c *domain.Node, _ bool) bool {
		if c.ID == id {
			fn(c)
			matched = true
		}
		return false
	})
	return out, matched
}

// SetEnabled returns a copy of the tree with Enabled set on the node with
// the given id and, when withDescendants is set, on its whole subtree.
func SetEnabled(roots []*domain.Node, id string, enabled, withDescendants bool) []*domain.Node {
	return rebuild(roots, func(c *domain.Node, inherited bool) bool {
		hit := c.ID == id
		if hit || (withDescendants && inherited) {
			c.Enabled = enabled
		}
		return withDescendants && (hit || inherited)
	})
}

// Toggle flips Enabled on the node with the given id (and its subtree when
// withDescendants is set) based on that node's current state.
func Toggle(roots []*domain.Node, id string, withDescendants bool) []*domain.Node {
	n := FindByID(roots, id)
	if n == nil {
		return Clone(roots)
	}
	return SetEnabled(roots, id, !n.Enabled, withDescendants)
}
