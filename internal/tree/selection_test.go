package tree

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string, kids ...*domain.Node) *domain.Node {
	if kids == nil {
		kids = []*domain.Node{}
	}
	return &domain.Node{ID: id, Name: "n" + id, IsActive: true, Children: kids}
}

func sampleTree() []*domain.Node {
	return []*domain.Node{
		node("1",
			node("2", node("3"), node("4")),
			node("5"),
		),
		node("6", node("7", node("8"))),
	}
}

func enabledByID(roots []*domain.Node) map[string]bool {
	out := map[string]bool{}
	Walk(roots, func(n *domain.Node, _ int) bool {
		out[n.ID] = n.Enabled
		return true
	})
	return out
}

func TestMarkEnabled_SetsFlagsWithoutMutatingInput(t *testing.T) {
	in := sampleTree()
	out := MarkEnabled(in, []any{2, "4", 7.0, "x"})

	flags := enabledByID(out)
	assert.Equal(t, map[string]bool{
		"1": false, "2": true, "3": false, "4": true,
		"5": false, "6": false, "7": true, "8": false,
	}, flags)

	for _, v := range enabledByID(in) {
		assert.False(t, v, "input nodes must stay untouched")
	}
	assert.NotSame(t, in[0], out[0])
	assert.NotSame(t, in[0].Children[0], out[0].Children[0])
}

func TestMarkEnabled_ChildrenPassThrough(t *testing.T) {
	in := []*domain.Node{
		{ID: "1", Children: nil},
		{ID: "2", Children: []*domain.Node{}},
	}
	out := MarkEnabled(in, []any{1})
	assert.Nil(t, out[0].Children)
	assert.NotNil(t, out[1].Children)
	assert.Empty(t, out[1].Children)
	assert.True(t, out[0].Enabled)
}

func TestMarkEnabled_NonNumericIdsNeverMatch(t *testing.T) {
	in := []*domain.Node{node("abc"), node(""), node("9")}
	out := MarkEnabled(in, []any{"abc", "", nil, 9})
	assert.False(t, out[0].Enabled)
	assert.False(t, out[1].Enabled)
	assert.True(t, out[2].Enabled)
}

func TestMarkEnabled_Idempotent(t *testing.T) {
	ids := []any{1, 3, 8}
	once := MarkEnabled(sampleTree(), ids)
	twice := MarkEnabled(once, ids)
	assert.Equal(t, enabledByID(once), enabledByID(twice))
}

func TestFlattenIDs_DescendsIntoDisabledParents(t *testing.T) {
	marked := MarkEnabled(sampleTree(), []any{3, 8})
	assert.Equal(t, []int64{3, 8}, FlattenIDs(marked, nil))
}

func TestFlattenIDs_PreOrderAndCustomPredicate(t *testing.T) {
	roots := sampleTree()
	all := FlattenIDs(roots, func(*domain.Node) bool { return true })
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, all)

	roots[0].Children[1].IsActive = false
	active := FlattenIDs(roots, Active)
	assert.NotContains(t, active, int64(5))
}

func TestFlattenIDs_DeduplicatesAnomalousIds(t *testing.T) {
	roots := []*domain.Node{
		{ID: "7", Enabled: false},
		{ID: "1", Enabled: true, Children: []*domain.Node{{ID: "7", Enabled: true}}},
		{ID: "7", Enabled: true},
	}
	assert.Equal(t, []int64{1, 7}, FlattenIDs(roots, nil))
}

func TestFlattenIDs_EmptyAndOddInput(t *testing.T) {
	assert.Equal(t, []int64{}, FlattenIDs(nil, nil))
	assert.Equal(t, []int64{}, FlattenIDs([]*domain.Node{}, nil))
	assert.Equal(t, []int64{}, FlattenIDs([]*domain.Node{nil, {ID: "uuid-1", Enabled: true}, {ID: "2.5", Enabled: true}}, nil))
}

// randomTree builds a tree with n numerically identified nodes.
func randomTree(r *rand.Rand, n int) []*domain.Node {
	var all []*domain.Node
	var roots []*domain.Node
	for i := 1; i <= n; i++ {
		nd := node(strconv.Itoa(i))
		if len(all) == 0 || r.Intn(4) == 0 {
			roots = append(roots, nd)
		} else {
			p := all[r.Intn(len(all))]
			p.Children = append(p.Children, nd)
		}
		all = append(all, nd)
	}
	return roots
}

func TestFlattenMarkRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		size := 1 + r.Intn(40)
		roots := randomTree(r, size)

		var selected []any
		want := map[int64]bool{}
		for i := 1; i <= size+5; i++ {
			if r.Intn(3) == 0 {
				selected = append(selected, strconv.Itoa(i))
				if i <= size {
					want[int64(i)] = true
				}
			}
		}

		got := FlattenIDs(MarkEnabled(roots, selected), nil)
		gotSet := map[int64]bool{}
		for _, id := range got {
			gotSet[id] = true
		}
		require.Equal(t, want, gotSet, "iteration %d", iter)
	}
}

func TestIDSet(t *testing.T) {
	set := NewIDSet([]any{"1", 2, "x", nil})
	assert.Len(t, set, 2)
	assert.True(t, set.Has("1"))
	assert.True(t, set.Has("2.0"))
	assert.False(t, set.Has("x"))
}

func TestEnabledIDs(t *testing.T) {
	marked := MarkEnabled(sampleTree(), []any{5, 6})
	assert.Equal(t, []any{int64(5), int64(6)}, EnabledIDs(marked))
}
