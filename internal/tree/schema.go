package tree

import "github.com/alexanderramin/crudforge/internal/domain"

// RawNode is one record as decoded from a backend JSON response.
type RawNode = map[string]any

// Field alias lists shared by every tree kind. Lookups take the first key
// whose value is present (non-nil).
var (
	ChildrenKeys       = []string{"children", "recursiveChildren", "recursive_children", "items"}
	IDKeys             = []string{"id"}
	ParentKeys         = []string{"parent_id", "parentId"}
	ActiveKeys         = []string{"is_active", "isActive", "active"}
	OrderKeys          = []string{"order_number", "orderNumber", "order", "sort_order"}
	DeletedKeys        = []string{"deleted_at", "deletedAt"}
	KindKeys           = []string{"type", "menu_type", "node_type", "kind"}
	CrudMenuKeys       = []string{"crud_menu_id", "crudMenuId", "cru_menu_id", "cruMenuId"}
	ProductKeys        = []string{"product_id", "productId"}
	PriceAddonKeys     = []string{"price_addon", "priceAddon"}
	TrialAvailableKeys = []string{"trial_available", "trialAvailable"}
	TrialDaysKeys      = []string{"trial_days", "trialDays"}

	// SelectionIDKeys resolves the selected id of a selection row. Pivot
	// rows carry their own id, so the foreign keys are checked first.
	SelectionIDKeys = []string{"feature_id", "featureId", "menu_id", "menuId", "id"}
)

// Schema is the per-tree-kind alias table used by the mapper. String
// fields take the first non-empty value among their keys.
type Schema struct {
	Tree domain.TreeKind
	Name []string
	Code []string
	Path []string

	// DepthKinds infers a node kind from its depth when the record does
	// not carry a recognised one. The last entry covers deeper levels.
	DepthKinds []domain.NodeKind

	// ActiveDefault is used when a record has no active flag at all.
	ActiveDefault bool
}

var (
	MenuSchema = Schema{
		Tree:          domain.TreeMenu,
		Name:          []string{"title", "name", "menu_title", "menuTitle"},
		Code:          []string{"module_code", "moduleCode", "code"},
		Path:          []string{"url", "route", "path"},
		DepthKinds:    []domain.NodeKind{domain.NodeGroup, domain.NodeModule, domain.NodeMenu},
		ActiveDefault: true,
	}

	FeatureSchema = Schema{
		Tree:          domain.TreeFeature,
		Name:          []string{"name", "title", "feature_name", "featureName"},
		Code:          []string{"feature_code", "featureCode", "code"},
		DepthKinds:    []domain.NodeKind{domain.NodeCategory, domain.NodeFeature, domain.NodeSubfeature},
		ActiveDefault: true,
	}

	ColumnSchema = Schema{
		Tree:          domain.TreeColumn,
		Name:          []string{"label", "column_name", "columnName", "name", "title"},
		Code:          []string{"column_code", "field", "code"},
		DepthKinds:    []domain.NodeKind{domain.NodeCategory, domain.NodeColumn},
		ActiveDefault: true,
	}
)

// SchemaFor returns the built-in schema for a tree kind.
func SchemaFor(kind domain.TreeKind) (Schema, bool) {
	switch kind {
	case domain.TreeMenu:
		return MenuSchema, true
	case domain.TreeFeature:
		return FeatureSchema, true
	case domain.TreeColumn:
		return ColumnSchema, true
	}
	return Schema{}, false
}

// WithActiveDefault returns a copy of s using def for records that omit
// their active flag.
func (s Schema) WithActiveDefault(def bool) Schema {
	s.ActiveDefault = def
	return s
}

// kindAt resolves a node kind: an explicit kind known to the schema wins,
// otherwise the depth table decides.
func (s Schema) kindAt(explicit string, depth int) domain.NodeKind {
	for _, k := range s.DepthKinds {
		if string(k) == explicit {
			return k
		}
	}
	if len(s.DepthKinds) == 0 {
		return domain.NodeKind(explicit)
	}
	if depth >= len(s.DepthKinds) {
		depth = len(s.DepthKinds) - 1
	}
	return s.DepthKinds[depth]
}
