package domain

import "strings"

// TreeKind names one of the hierarchies the admin builder exposes.
type TreeKind string

const (
	TreeMenu    TreeKind = "menu"
	TreeFeature TreeKind = "feature"
	TreeColumn  TreeKind = "column"
)

// TreeKinds lists every tree kind in display order.
var TreeKinds = []TreeKind{TreeMenu, TreeFeature, TreeColumn}

// ParseTreeKind accepts singular and plural spellings ("menus", "features").
func ParseTreeKind(s string) (TreeKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "menu", "menus":
		return TreeMenu, true
	case "feature", "features":
		return TreeFeature, true
	case "column", "columns":
		return TreeColumn, true
	}
	return "", false
}

type NodeKind string

const (
	// navigation menu levels
	NodeGroup  NodeKind = "group"
	NodeModule NodeKind = "module"
	NodeMenu   NodeKind = "menu"

	// feature catalog levels
	NodeCategory   NodeKind = "category"
	NodeFeature    NodeKind = "feature"
	NodeSubfeature NodeKind = "subfeature"

	// crud module layout
	NodeColumn NodeKind = "column"
)

// TreeView selects how soft-deleted nodes are treated when building a tree.
type TreeView string

const (
	ViewActive TreeView = "active"
	ViewTrash  TreeView = "trash"
	ViewAll    TreeView = "all"
)

// ParseTreeView maps a view name onto a TreeView, defaulting to active.
func ParseTreeView(s string) TreeView {
	switch TreeView(s) {
	case ViewTrash:
		return ViewTrash
	case ViewAll:
		return ViewAll
	default:
		return ViewActive
	}
}
