package tree

import (
	"sort"

	"github.com/alexanderramin/crudforge/internal/domain"
)

// Entry is one node of a flattened tree in display order.
type Entry struct {
	Node   *domain.Node
	Depth  int
	IsLast bool
}

type walkFrame struct {
	node   *domain.Node
	depth  int
	isLast bool
}

// Walk visits nodes depth-first in pre-order without recursion. Returning
// false from fn skips that node's children. Nil nodes are ignored.
func Walk(roots []*domain.Node, fn func(n *domain.Node, depth int) bool) {
	walk(roots, func(f walkFrame) bool { return fn(f.node, f.depth) })
}

func walk(roots []*domain.Node, fn func(walkFrame) bool) {
	stack := make([]walkFrame, 0, len(roots))
	pushReversed := func(nodes []*domain.Node, depth int) {
		last := len(nodes) - 1
		for last >= 0 && nodes[last] == nil {
			last--
		}
		for i := len(nodes) - 1; i >= 0; i-- {
			if nodes[i] == nil {
				continue
			}
			stack = append(stack, walkFrame{node: nodes[i], depth: depth, isLast: i == last})
		}
	}
	pushReversed(roots, 0)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fn(f) {
			pushReversed(f.node.Children, f.depth+1)
		}
	}
}

// Flatten lists every node in pre-order with its depth.
func Flatten(roots []*domain.Node) []Entry {
	var out []Entry
	walk(roots, func(f walkFrame) bool {
		out = append(out, Entry{Node: f.node, Depth: f.depth, IsLast: f.isLast})
		return true
	})
	return out
}

// Count returns the number of nodes in the tree.
func Count(roots []*domain.Node) int {
	n := 0
	Walk(roots, func(*domain.Node, int) bool {
		n++
		return true
	})
	return n
}

// FindByID returns the first node in pre-order with the given id, or nil.
func FindByID(roots []*domain.Node, id string) *domain.Node {
	var found *domain.Node
	Walk(roots, func(n *domain.Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// SortByOrder returns a copy of the tree with every sibling list stably
// sorted by OrderNumber.
func SortByOrder(roots []*domain.Node) []*domain.Node {
	out := Clone(roots)
	sortSiblings(out)
	Walk(out, func(n *domain.Node, _ int) bool {
		sortSiblings(n.Children)
		return true
	})
	return out
}

func sortSiblings(nodes []*domain.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return orderOf(nodes[i]) < orderOf(nodes[j])
	})
}

func orderOf(n *domain.Node) int {
	if n == nil {
		return 0
	}
	return n.OrderNumber
}
