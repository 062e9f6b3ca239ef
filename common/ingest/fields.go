package ingest

import (
	"strconv"
	"strings"
)

// stringField returns obj[key] when it is a non-blank string
func stringField(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// idField returns obj[key] as a string id. Exports use both string and
// numeric ids.
func idField(obj map[string]any, key string) (string, bool) {
	switch v := obj[key].(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func objectField(obj map[string]any, key string) (map[string]any, bool) {
	m, ok := obj[key].(map[string]any)
	return m, ok
}

func arrayField(obj map[string]any, key string) ([]any, bool) {
	a, ok := obj[key].([]any)
	return a, ok
}

func workflowName(doc map[string]any, fileName string) string {
	if name, ok := stringField(doc, "name"); ok {
		return name
	}
	return fileName
}
