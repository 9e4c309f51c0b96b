package util

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// SafeNestedString returns the string at the given field path, or "" if missing/wrong type.
func SafeNestedString(obj map[string]interface{}, fields ...string) string {
	if obj == nil {
		return ""
	}
	val, found, err := unstructured.NestedString(obj, fields...)
	if err != nil || !found {
		return ""
	}
	return val
}

// SafeNestedBool returns the bool at the given field path, or false if missing.
func SafeNestedBool(obj map[string]interface{}, fields ...string) bool {
	if obj == nil {
		return false
	}
	val, found, err := unstructured.NestedBool(obj, fields...)
	if err != nil || !found {
		return false
	}
	return val
}

// SafeNestedBoolPtr returns a pointer to the bool at the given field path,
// or nil when the field is absent or not a bool. The pointer keeps "unset"
// distinguishable from an explicit false.
func SafeNestedBoolPtr(obj map[string]interface{}, fields ...string) *bool {
	if obj == nil {
		return nil
	}
	val, found, err := unstructured.NestedBool(obj, fields...)
	if err != nil || !found {
		return nil
	}
	return &val
}

// SafeNestedInt64Ptr returns a pointer to the integer at the given field
// path, or nil when absent. YAML decoded through sigs.k8s.io/yaml produces
// int64 or float64 depending on the route, so both are accepted.
func SafeNestedInt64Ptr(obj map[string]interface{}, fields ...string) *int64 {
	if obj == nil {
		return nil
	}
	val, found, err := unstructured.NestedFieldNoCopy(obj, fields...)
	if err != nil || !found {
		return nil
	}
	n, ok := AsInt64(val)
	if !ok {
		return nil
	}
	return &n
}

// SafeNestedStringSlice returns the []string at the given field path, or nil if missing.
func SafeNestedStringSlice(obj map[string]interface{}, fields ...string) []string {
	if obj == nil {
		return nil
	}
	val, found, err := unstructured.NestedStringSlice(obj, fields...)
	if err != nil || !found {
		return nil
	}
	return val
}

// SafeNestedMap returns the nested map, or nil if missing.
func SafeNestedMap(obj map[string]interface{}, fields ...string) map[string]interface{} {
	if obj == nil {
		return nil
	}
	val, found, err := unstructured.NestedMap(obj, fields...)
	if err != nil || !found {
		return nil
	}
	return val
}

// SafeNestedSlice returns the nested slice, or nil if missing.
func SafeNestedSlice(obj map[string]interface{}, fields ...string) []interface{} {
	if obj == nil {
		return nil
	}
	val, found, err := unstructured.NestedSlice(obj, fields...)
	if err != nil || !found {
		return nil
	}
	return val
}

// SafeStringFromMap extracts a string value from a map by key.
// Returns "" if key is missing or value is not a string.
func SafeStringFromMap(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	val, ok := m[key]
	if !ok {
		return ""
	}
	strVal, ok := val.(string)
	if !ok {
		return ""
	}
	return strVal
}

// AsInt64 coerces a decoded YAML/JSON number to int64.
func AsInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
