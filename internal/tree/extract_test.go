package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRootArray_SupportedEnvelopes(t *testing.T) {
	envelopes := map[string]string{
		"bare array":     `[{"id":1}]`,
		"data":           `{"data":[{"id":1}]}`,
		"paginated data": `{"data":{"data":[{"id":1}],"current_page":1}}`,
		"rows":           `{"rows":[{"id":1}],"total":1}`,
	}
	for name, body := range envelopes {
		t.Run(name, func(t *testing.T) {
			got := ExtractRootArray(decode(t, body))
			if assert.Len(t, got, 1) {
				obj, ok := got[0].(map[string]any)
				if assert.True(t, ok) {
					assert.Equal(t, "1", obj["id"].(interface{ String() string }).String())
				}
			}
		})
	}
}

func TestExtractRootArray_UnknownShapesAreEmpty(t *testing.T) {
	for _, v := range []any{
		map[string]any{},
		nil,
		"garbage",
		42,
		map[string]any{"data": "nope"},
		map[string]any{"data": map[string]any{"data": map[string]any{}}},
		map[string]any{"rows": nil},
	} {
		got := ExtractRootArray(v)
		assert.NotNil(t, got, "%#v", v)
		assert.Empty(t, got, "%#v", v)
	}
}

func TestExtractRootArray_CheckOrder(t *testing.T) {
	v := map[string]any{
		"data": []any{"from-data"},
		"rows": []any{"from-rows"},
	}
	assert.Equal(t, []any{"from-data"}, ExtractRootArray(v))
}

func TestExtractRawNodes_DropsNonObjects(t *testing.T) {
	got := ExtractRawNodes(decode(t, `{"data":[{"id":1},2,"x",null,{"id":3}]}`))
	assert.Len(t, got, 2)
	assert.Empty(t, ExtractRawNodes("garbage"))
}

func TestExtractIDs(t *testing.T) {
	got := ExtractIDs(decode(t, `{"data":[1,"2",null,{"id":10,"feature_id":3},{"id":4},{"name":"no id"},[5]]}`))
	assert.Len(t, got, 4)
	assert.Equal(t, "1", got[0].(interface{ String() string }).String())
	assert.Equal(t, "2", got[1])
	assert.Equal(t, "3", got[2].(interface{ String() string }).String(), "foreign key wins over pivot id")
	assert.Equal(t, "4", got[3].(interface{ String() string }).String())

	assert.Empty(t, ExtractIDs(nil))
}
