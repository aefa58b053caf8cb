package tree

// ExtractRootArray pulls the record list out of the envelope shapes the
// backend uses: a bare array, {data: [...]}, {data: {data: [...]}} for
// paginated responses, or {rows: [...]}. Any other shape yields an empty
// list so a drifting response never breaks rendering.
func ExtractRootArray(v any) []any {
	if arr, ok := asList(v); ok {
		return arr
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return []any{}
	}
	if arr, ok := asList(obj["data"]); ok {
		return arr
	}
	if inner, ok := obj["data"].(map[string]any); ok {
		if arr, ok := asList(inner["data"]); ok {
			return arr
		}
	}
	if arr, ok := asList(obj["rows"]); ok {
		return arr
	}
	return []any{}
}

// ExtractRawNodes is ExtractRootArray restricted to object elements, the
// only elements the mapper can turn into nodes.
func ExtractRawNodes(v any) []RawNode {
	arr := ExtractRootArray(v)
	out := make([]RawNode, 0, len(arr))
	for _, el := range arr {
		if r, ok := el.(map[string]any); ok {
			out = append(out, r)
		}
	}
	return out
}

// ExtractIDs reads a selection resource: scalar elements are ids, object
// elements contribute their first SelectionIDKeys value. Nulls are dropped.
func ExtractIDs(v any) []any {
	arr := ExtractRootArray(v)
	out := make([]any, 0, len(arr))
	for _, el := range arr {
		switch x := el.(type) {
		case nil:
		case map[string]any:
			if id := first(x, SelectionIDKeys); id != nil {
				out = append(out, id)
			}
		case []any:
		default:
			out = append(out, x)
		}
	}
	return out
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []RawNode:
		out := make([]any, len(x))
		for i, r := range x {
			out[i] = r
		}
		return out, true
	}
	return nil, false
}
