// Package tree converts loosely shaped backend records into canonical node
// trees and back into flat id lists. Nothing in this package returns an
// error or panics on malformed input; it degrades to zero values instead.
package tree

import (
	"strings"

	"github.com/alexanderramin/crudforge/internal/coerce"
	"github.com/alexanderramin/crudforge/internal/domain"
)

// MapNode converts one raw record and everything nested below it. A value
// that is not an object maps to a zero node with no children.
func MapNode(raw any, s Schema) *domain.Node {
	return mapFrom(asRaw(raw), s, 0)
}

// MapTree maps every root record. The result is never nil.
func MapTree(roots []RawNode, s Schema) []*domain.Node {
	out := make([]*domain.Node, 0, len(roots))
	for _, r := range roots {
		out = append(out, mapFrom(r, s, 0))
	}
	return out
}

type mapFrame struct {
	raw   RawNode
	node  *domain.Node
	depth int
}

// mapFrom walks with an explicit stack so pathological nesting cannot grow
// the goroutine stack.
func mapFrom(raw RawNode, s Schema, depth int) *domain.Node {
	root := newNode(raw, s, depth)
	stack := []mapFrame{{raw: raw, node: root, depth: depth}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kids := childrenOf(f.raw)
		f.node.Children = make([]*domain.Node, 0, len(kids))
		for _, k := range kids {
			kr, ok := k.(map[string]any)
			if !ok {
				continue
			}
			child := newNode(kr, s, f.depth+1)
			f.node.Children = append(f.node.Children, child)
			stack = append(stack, mapFrame{raw: kr, node: child, depth: f.depth + 1})
		}
	}
	return root
}

func newNode(raw RawNode, s Schema, depth int) *domain.Node {
	return &domain.Node{
		ID:             coerce.String(first(raw, IDKeys)),
		Name:           firstString(raw, s.Name),
		Code:           firstString(raw, s.Code),
		Path:           firstString(raw, s.Path),
		Kind:           s.kindAt(strings.ToLower(firstString(raw, KindKeys)), depth),
		ParentID:       coerce.NullableID(first(raw, ParentKeys)),
		IsActive:       coerce.Bool(first(raw, ActiveKeys), s.ActiveDefault),
		OrderNumber:    coerce.Int(first(raw, OrderKeys), 0),
		DeletedAt:      coerce.NullableID(first(raw, DeletedKeys)),
		CrudMenuID:     coerce.NullableID(first(raw, CrudMenuKeys)),
		ProductID:      coerce.NullableID(first(raw, ProductKeys)),
		PriceAddon:     coerce.Number(first(raw, PriceAddonKeys), 0),
		TrialAvailable: coerce.Bool(first(raw, TrialAvailableKeys), false),
		TrialDays:      coerce.Int(first(raw, TrialDaysKeys), 0),
	}
}

// childrenOf returns the first present children list. A present value that
// is not a list counts as no children.
func childrenOf(raw RawNode) []any {
	v := first(raw, ChildrenKeys)
	switch x := v.(type) {
	case []any:
		return x
	case []RawNode:
		out := make([]any, len(x))
		for i, r := range x {
			out[i] = r
		}
		return out
	}
	return nil
}

func first(raw RawNode, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(raw RawNode, keys []string) string {
	for _, k := range keys {
		if s := coerce.String(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

func asRaw(v any) RawNode {
	if r, ok := v.(map[string]any); ok {
		return r
	}
	return nil
}
