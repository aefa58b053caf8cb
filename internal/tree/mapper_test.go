package tree

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestMapNode_MenuAliasResolution(t *testing.T) {
	raw := decode(t, `{"id":5,"title":"Sales","recursiveChildren":[{"id":6,"name":"Leads"}]}`)

	n := MapNode(raw, MenuSchema)

	assert.Equal(t, "5", n.ID)
	assert.Equal(t, "Sales", n.Name)
	require.Len(t, n.Children, 1)
	assert.Equal(t, "6", n.Children[0].ID)
	assert.Equal(t, "Leads", n.Children[0].Name)
	assert.NotNil(t, n.Children[0].Children)
	assert.Empty(t, n.Children[0].Children)
}

func TestMapNode_ChildrenKeyPrecedence(t *testing.T) {
	raw := RawNode{
		"id":                 1,
		"children":           nil,
		"recursive_children": []any{RawNode{"id": 2}},
		"items":              []any{RawNode{"id": 3}},
	}
	n := MapNode(raw, FeatureSchema)
	require.Len(t, n.Children, 1)
	assert.Equal(t, "2", n.Children[0].ID, "null children falls through to the next alias")

	raw = RawNode{"id": 1, "children": []any{}, "items": []any{RawNode{"id": 3}}}
	n = MapNode(raw, FeatureSchema)
	assert.Empty(t, n.Children, "an empty children list is still present")
}

func TestMapNode_MenuTitleFallbacks(t *testing.T) {
	cases := []struct {
		raw  RawNode
		want string
	}{
		{RawNode{"title": "A", "name": "B"}, "A"},
		{RawNode{"title": "", "name": "B"}, "B"},
		{RawNode{"menu_title": "C"}, "C"},
		{RawNode{"menuTitle": "D"}, "D"},
		{RawNode{}, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapNode(tc.raw, MenuSchema).Name)
	}
}

func TestMapNode_FeatureFields(t *testing.T) {
	raw := decode(t, `{
		"id": "12",
		"name": "Invoices",
		"feature_code": "INV",
		"parent_id": 3,
		"is_active": "0",
		"order_number": "4",
		"product_id": "",
		"crud_menu_id": 9,
		"price_addon": "19.5",
		"trial_available": 1,
		"trial_days": "14",
		"deleted_at": null
	}`)

	n := MapNode(raw, FeatureSchema)

	assert.Equal(t, "12", n.ID)
	assert.Equal(t, "INV", n.Code)
	require.NotNil(t, n.ParentID)
	assert.Equal(t, "3", *n.ParentID)
	assert.False(t, n.IsActive)
	assert.Equal(t, 4, n.OrderNumber)
	assert.Nil(t, n.ProductID)
	require.NotNil(t, n.CrudMenuID)
	assert.Equal(t, "9", *n.CrudMenuID)
	assert.Equal(t, 19.5, n.PriceAddon)
	assert.True(t, n.TrialAvailable)
	assert.Equal(t, 14, n.TrialDays)
	assert.Nil(t, n.DeletedAt)
}

func TestMapNode_ActiveDefaultIsPerSchema(t *testing.T) {
	raw := RawNode{"id": 1}
	assert.True(t, MapNode(raw, FeatureSchema).IsActive)
	assert.False(t, MapNode(raw, FeatureSchema.WithActiveDefault(false)).IsActive)
	assert.True(t, MapNode(RawNode{"id": 1, "isActive": true}, MenuSchema.WithActiveDefault(false)).IsActive)
	assert.False(t, MapNode(RawNode{"id": 1, "active": 0}, MenuSchema).IsActive)
}

func TestMapNode_KindFromFieldOrDepth(t *testing.T) {
	raw := RawNode{
		"id": 1,
		"children": []any{
			RawNode{"id": 2, "children": []any{
				RawNode{"id": 3, "children": []any{RawNode{"id": 4}}},
			}},
			RawNode{"id": 5, "type": "MENU"},
		},
	}
	n := MapNode(raw, MenuSchema)

	assert.Equal(t, domain.NodeGroup, n.Kind)
	assert.Equal(t, domain.NodeModule, n.Children[0].Kind)
	assert.Equal(t, domain.NodeMenu, n.Children[0].Children[0].Kind)
	assert.Equal(t, domain.NodeMenu, n.Children[0].Children[0].Children[0].Kind, "deeper levels reuse the last kind")
	assert.Equal(t, domain.NodeMenu, n.Children[1].Kind, "explicit kind wins over depth")

	col := MapNode(RawNode{"id": 1, "type": "varchar"}, ColumnSchema)
	assert.Equal(t, domain.NodeCategory, col.Kind, "unknown explicit kinds fall back to depth")
}

func TestMapNode_ChildrenKeepSourceOrderAndSkipNonObjects(t *testing.T) {
	raw := RawNode{"id": 1, "items": []any{RawNode{"id": "b"}, "junk", nil, RawNode{"id": "a"}}}
	n := MapNode(raw, ColumnSchema)
	require.Len(t, n.Children, 2)
	assert.Equal(t, "b", n.Children[0].ID)
	assert.Equal(t, "a", n.Children[1].ID)
}

func TestMapNode_DeepNestingDoesNotRecurse(t *testing.T) {
	const depth = 100000
	root := RawNode{"id": 0}
	cur := root
	for i := 1; i < depth; i++ {
		next := RawNode{"id": i}
		cur["children"] = []any{next}
		cur = next
	}

	n := MapNode(root, MenuSchema)
	assert.Equal(t, depth, Count([]*domain.Node{n}))
}

func TestMapTree_NeverNil(t *testing.T) {
	assert.NotNil(t, MapTree(nil, MenuSchema))
	assert.Len(t, MapTree([]RawNode{{"id": 1}, {"id": 2}}, MenuSchema), 2)
}

func TestSchemaFor(t *testing.T) {
	for _, k := range []domain.TreeKind{domain.TreeMenu, domain.TreeFeature, domain.TreeColumn} {
		s, ok := SchemaFor(k)
		require.True(t, ok)
		assert.Equal(t, k, s.Tree)
		assert.NotEmpty(t, s.Name)
	}
	_, ok := SchemaFor("widgets")
	assert.False(t, ok)
}
