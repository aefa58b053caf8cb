package tree

import "github.com/alexanderramin/crudforge/internal/domain"

// NeedsNesting reports whether a list of mapped roots is really a flat
// listing, i.e. some root names another root as its parent.
func NeedsNesting(roots []*domain.Node) bool {
	ids := make(map[string]struct{}, len(roots))
	for _, n := range roots {
		if n != nil {
			ids[n.ID] = struct{}{}
		}
	}
	for _, n := range roots {
		if n == nil || n.IsRoot() {
			continue
		}
		if _, ok := ids[*n.ParentID]; ok && *n.ParentID != n.ID {
			return true
		}
	}
	return false
}

// Nest assembles a flat list into a tree using each node's ParentID.
// Nodes whose parent is absent, or that sit on a parent cycle, become
// roots. Sibling order follows the input order; existing children are kept
// ahead of nested ones. The input nodes are not modified.
func Nest(flat []*domain.Node) []*domain.Node {
	copies := make([]*domain.Node, 0, len(flat))
	byID := make(map[string]*domain.Node, len(flat))
	for _, n := range flat {
		if n == nil {
			continue
		}
		c := n.ShallowCopy()
		c.Children = append([]*domain.Node{}, n.Children...)
		copies = append(copies, c)
		if _, dup := byID[c.ID]; !dup {
			byID[c.ID] = c
		}
	}

	roots := []*domain.Node{}
	for _, c := range copies {
		p := parentOf(c, byID)
		if p == nil || onCycle(c, byID, len(copies)) {
			roots = append(roots, c)
			continue
		}
		p.Children = append(p.Children, c)
	}
	return roots
}

func parentOf(n *domain.Node, byID map[string]*domain.Node) *domain.Node {
	if n.IsRoot() {
		return nil
	}
	p, ok := byID[*n.ParentID]
	if !ok || p == n {
		return nil
	}
	return p
}

// onCycle follows parent links from n for at most limit steps and reports
// whether they lead back to n.
func onCycle(n *domain.Node, byID map[string]*domain.Node, limit int) bool {
	cur := parentOf(n, byID)
	for steps := 0; cur != nil && steps < limit; steps++ {
		if cur == n {
			return true
		}
		cur = parentOf(cur, byID)
	}
	return false
}
