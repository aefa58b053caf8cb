package tree

import (
	"testing"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deleted(n *domain.Node) *domain.Node {
	ts := "2024-01-02T03:04:05Z"
	n.DeletedAt = &ts
	return n
}

func ids(roots []*domain.Node) []string {
	var out []string
	Walk(roots, func(n *domain.Node, _ int) bool {
		out = append(out, n.ID)
		return true
	})
	return out
}

func softDeletedTree() []*domain.Node {
	return []*domain.Node{
		node("1",
			deleted(node("2", node("3"), deleted(node("4")))),
			node("5", deleted(node("6"))),
		),
		deleted(node("7", node("8"))),
	}
}

func TestActiveView_DropsDeletedSubtrees(t *testing.T) {
	in := softDeletedTree()
	out := ActiveView(in)
	assert.Equal(t, []string{"1", "5"}, ids(out))
	assert.NotNil(t, out[0].Children[0].Children, "emptied children stay a list")
	assert.Len(t, in[0].Children, 2, "input untouched")
}

func TestTrashView_TopmostDeletedWithSubtrees(t *testing.T) {
	in := softDeletedTree()
	out := TrashView(in)
	require.Len(t, out, 3)
	assert.Equal(t, "2", out[0].ID)
	assert.Equal(t, "6", out[1].ID)
	assert.Equal(t, "7", out[2].ID)
	assert.Equal(t, []string{"2", "3", "4", "6", "7", "8"}, ids(out))
	assert.NotSame(t, in[1], out[2])
}

func TestApplyView(t *testing.T) {
	in := softDeletedTree()
	assert.Equal(t, ids(ActiveView(in)), ids(ApplyView(in, domain.ViewActive)))
	assert.Equal(t, ids(TrashView(in)), ids(ApplyView(in, domain.ViewTrash)))
	assert.Equal(t, ids(in), ids(ApplyView(in, domain.ViewAll)))
	assert.Equal(t, ids(ActiveView(in)), ids(ApplyView(in, "")))
}

func TestViews_EmptyInput(t *testing.T) {
	assert.NotNil(t, ActiveView(nil))
	assert.Empty(t, ActiveView(nil))
	assert.Empty(t, TrashView(nil))
}
