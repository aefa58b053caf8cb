// Package payload turns edit-form values into the body shape the backend
// accepts on writes.
package payload

import (
	"strings"

	"github.com/alexanderramin/crudforge/internal/coerce"
)

// alias maps a backend key to the form keys that may carry it. The backend
// key itself is always checked first.
type alias struct {
	key  string
	from []string
}

var aliases = []alias{
	{key: "parent_id", from: []string{"parentId"}},
	{key: "product_id", from: []string{"productId"}},
	{key: "product_code", from: []string{"productCode"}},
	{key: "feature_code", from: []string{"featureCode"}},
	{key: "crud_menu_id", from: []string{"crudMenuId"}},
	{key: "is_active", from: []string{"isActive"}},
	{key: "order_number", from: []string{"orderNumber", "order"}},
}

const (
	keyTrialAvailable = "trial_available"
	keyTrialDays      = "trial_days"
)

// Normalize returns a new map with backend key names and field coercions
// applied. Keys it does not know are copied unchanged. The input is not
// modified.
func Normalize(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	consumed := make(map[string]struct{})

	for _, a := range aliases {
		for _, k := range append([]string{a.key}, a.from...) {
			consumed[k] = struct{}{}
		}
		if v, ok := lookup(input, a.key, a.from); ok {
			out[a.key] = field(a.key, v)
		}
	}

	for k, v := range input {
		if _, done := consumed[k]; done {
			continue
		}
		if k == keyTrialDays {
			continue
		}
		out[k] = field(k, v)
	}

	_, hasAvail := input[keyTrialAvailable]
	_, hasDays := input[keyTrialDays]
	if hasAvail || hasDays {
		out[keyTrialDays] = trialDays(input)
	}
	return out
}

// lookup returns the first non-nil value among key and its aliases. A nil
// value still counts as present when nothing else is set.
func lookup(input map[string]any, key string, from []string) (any, bool) {
	found := false
	for _, k := range append([]string{key}, from...) {
		v, ok := input[k]
		if !ok {
			continue
		}
		if v != nil {
			return v, true
		}
		found = true
	}
	return nil, found
}

// field applies the coercion for a single backend key.
func field(key string, v any) any {
	switch {
	case key == "is_active", key == keyTrialAvailable:
		return coerce.Truthy(v)
	case key == "order_number":
		if v == nil {
			return 0
		}
		return v
	case IsIDKey(key):
		return ID(v)
	}
	return v
}

// trialDays reads the sibling trial_available flag from the input so the
// result does not depend on key iteration order.
func trialDays(input map[string]any) any {
	if !coerce.Truthy(input[keyTrialAvailable]) {
		return nil
	}
	return input[keyTrialDays]
}

// IsIDKey reports whether key names an id field, in either
// snake_case (parent_id) or camelCase (parentId).
func IsIDKey(key string) bool {
	return strings.HasSuffix(key, "_id") || (len(key) > 2 && strings.HasSuffix(key, "Id"))
}

// ID prepares an id value for the backend: nil and "" become nil, strings
// of digits become numbers and everything else passes through.
func ID(v any) any {
	if coerce.NullableID(v) == nil {
		return nil
	}
	return coerce.IDToNumberIfIntegerString(v)
}
