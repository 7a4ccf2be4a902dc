// Package attrs inspects slog-style key-value attribute lists.
package attrs

// ExtractString returns the string value for key in an alternating
// [key1, value1, key2, value2, ...] attribute list. Missing keys and
// non-string values yield the empty string.
func ExtractString(attrList []any, key string) string {
	for i := 0; i+1 < len(attrList); i += 2 {
		k, ok := attrList[i].(string)
		if !ok || k != key {
			continue
		}
		if v, ok := attrList[i+1].(string); ok {
			return v
		}
	}
	return ""
}
