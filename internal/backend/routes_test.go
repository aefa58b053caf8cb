package backend

import (
	"testing"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreePath(t *testing.T) {
	p, err := TreePath(domain.TreeMenu, "")
	require.NoError(t, err)
	assert.Equal(t, "/api/menus", p)

	p, err = TreePath(domain.TreeFeature, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "/api/features", p)

	p, err = TreePath(domain.TreeColumn, "7")
	require.NoError(t, err)
	assert.Equal(t, "/api/crud-modules/7/columns", p)

	_, err = TreePath(domain.TreeColumn, "")
	assert.ErrorIs(t, err, ErrScopeRequired)

	_, err = TreePath("widgets", "")
	assert.Error(t, err)
}

func TestNodePath(t *testing.T) {
	p, err := NodePath(domain.TreeColumn, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/crud-columns/a%2Fb", p)

	p, err = NodePath(domain.TreeMenu, "3")
	require.NoError(t, err)
	assert.Equal(t, "/api/menus/3", p)

	_, err = NodePath(domain.TreeFeature, "")
	assert.Error(t, err)
}

func TestPackageFeaturesPath(t *testing.T) {
	assert.Equal(t, "/api/packages/9/features", PackageFeaturesPath("9"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, domain.TreeMenu, KindOf("/api/menus"))
	assert.Equal(t, domain.TreeFeature, KindOf("/api/features"))
	assert.Equal(t, domain.TreeColumn, KindOf("/api/crud-modules/4/columns"))
	assert.Equal(t, domain.TreeKind(""), KindOf(PackageFeaturesPath("4")))
	assert.Equal(t, domain.TreeKind(""), KindOf("/api/menus/4"))
}
