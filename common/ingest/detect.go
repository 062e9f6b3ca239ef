package ingest

import "github.com/flowshift/quoter/common/models"

// Detect classifies a parsed export by its top-level shape.
// Rules are checked in order and the first match wins.
func Detect(doc map[string]any) models.Platform {
	if isArray(doc["flow"]) {
		return models.PlatformMake
	}

	if isArray(doc["zaps"]) {
		return models.PlatformZapier
	}

	// A bare node list is not enough, n8n exports always carry connections
	if _, hasConnections := doc["connections"]; hasConnections && isArray(doc["nodes"]) {
		return models.PlatformN8n
	}

	return models.PlatformUnknown
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}
