package tree

import (
	"testing"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFlatten_DepthAndIsLast(t *testing.T) {
	entries := Flatten(sampleTree())

	var got []string
	for _, e := range entries {
		mark := "-"
		if e.IsLast {
			mark = "L"
		}
		got = append(got, e.Node.ID+":"+string(rune('0'+e.Depth))+mark)
	}
	assert.Equal(t, []string{"1:0-", "2:1-", "3:2-", "4:2L", "5:1L", "6:0L", "7:1L", "8:2L"}, got)
}

func TestWalk_SkipChildren(t *testing.T) {
	var seen []string
	Walk(sampleTree(), func(n *domain.Node, _ int) bool {
		seen = append(seen, n.ID)
		return n.ID != "2"
	})
	assert.Equal(t, []string{"1", "2", "5", "6", "7", "8"}, seen)
}

func TestFindByID(t *testing.T) {
	assert.Equal(t, "7", FindByID(sampleTree(), "7").ID)
	assert.Nil(t, FindByID(sampleTree(), "nope"))
	assert.Nil(t, FindByID(nil, "1"))
}

func TestSortByOrder(t *testing.T) {
	a, b, c := node("a"), node("b"), node("c")
	a.OrderNumber, b.OrderNumber, c.OrderNumber = 2, 1, 2
	x, y := node("x"), node("y")
	x.OrderNumber, y.OrderNumber = 5, 3
	b.Children = []*domain.Node{x, y}
	in := []*domain.Node{a, b, c}

	out := SortByOrder(in)

	assert.Equal(t, []string{"b", "y", "x", "a", "c"}, ids(out))
	assert.Equal(t, "a", in[0].ID, "input order kept")
}
