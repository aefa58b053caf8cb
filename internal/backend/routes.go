package backend

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alexanderramin/crudforge/internal/domain"
)

const (
	menusPath    = "/api/menus"
	featuresPath = "/api/features"
)

// TreePath returns the resource holding a whole tree of the given kind.
// Column trees belong to a CRUD module and need its id as scope.
func TreePath(kind domain.TreeKind, scopeID string) (string, error) {
	switch kind {
	case domain.TreeMenu:
		return menusPath, nil
	case domain.TreeFeature:
		return featuresPath, nil
	case domain.TreeColumn:
		if scopeID == "" {
			return "", fmt.Errorf("column tree: %w", ErrScopeRequired)
		}
		return "/api/crud-modules/" + url.PathEscape(scopeID) + "/columns", nil
	}
	return "", fmt.Errorf("unknown tree kind %q", kind)
}

// NodePath returns the update resource for a single node.
func NodePath(kind domain.TreeKind, id string) (string, error) {
	var base string
	switch kind {
	case domain.TreeMenu:
		base = menusPath
	case domain.TreeFeature:
		base = featuresPath
	case domain.TreeColumn:
		base = "/api/crud-columns"
	default:
		return "", fmt.Errorf("unknown tree kind %q", kind)
	}
	if id == "" {
		return "", fmt.Errorf("%s node: empty id", kind)
	}
	return base + "/" + url.PathEscape(id), nil
}

// PackageFeaturesPath returns the feature selection resource of a package.
func PackageFeaturesPath(packageID string) string {
	return "/api/packages/" + url.PathEscape(packageID) + "/features"
}

// KindOf reports the tree kind stored at a resource path, or "" for paths
// that do not hold a tree.
func KindOf(path string) domain.TreeKind {
	switch {
	case path == menusPath:
		return domain.TreeMenu
	case path == featuresPath:
		return domain.TreeFeature
	case strings.HasPrefix(path, "/api/crud-modules/") && strings.HasSuffix(path, "/columns"):
		return domain.TreeColumn
	}
	return ""
}
