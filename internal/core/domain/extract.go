package domain

import "strings"

// Extract reads the value reachable from payload by descending one
// mapping level per dot-separated segment of path.
//
// An empty path returns payload unchanged. If any segment is missing
// from the current level, or a prior segment resolved to a non-mapping
// value (including JSON null), Extract returns the empty string
// sentinel rather than an error. This models graceful degradation for
// optional remote fields: a missing field and a field on an error
// payload read the same way downstream.
//
// The sentinel also applies when an intermediate key maps to a
// scalar; Extract("a.b") over {"a": 5} is "".
func Extract(payload map[string]any, path string) any {
	if path == "" {
		return payload
	}

	var current any = payload
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = m[segment]
		if !ok {
			return ""
		}
	}
	return current
}

// ExtractString extracts path and returns it as a string. Missing
// fields and non-string values collapse to "".
func ExtractString(payload map[string]any, path string) string {
	s, _ := Extract(payload, path).(string)
	return s
}

// ExtractBool extracts path and returns it as a bool. Missing fields,
// null and non-bool values collapse to false.
func ExtractBool(payload map[string]any, path string) bool {
	b, _ := Extract(payload, path).(bool)
	return b
}
