package ingest

import "github.com/flowshift/quoter/common/models"

// NormalizeN8n converts an n8n workflow export. The export is already a flat
// node list so every entry is one node.
func NormalizeN8n(doc map[string]any, fileName string, pricePerNode int) models.Workflow {
	entries, _ := arrayField(doc, "nodes")

	nodes := make([]models.Node, 0, len(entries))
	for _, entry := range entries {
		n, _ := entry.(map[string]any)

		name, ok := stringField(n, "name")
		if !ok {
			name = "Unknown"
		}
		nodeType, ok := stringField(n, "type")
		if !ok {
			nodeType = "unknown"
		}

		nodes = append(nodes, models.Node{Name: name, Type: nodeType})
	}

	return models.NewWorkflow(
		models.PlatformN8n,
		fileName,
		workflowName(doc, fileName),
		len(nodes),
		nodes,
		pricePerNode,
	)
}
