package ingest

import (
	"github.com/flowshift/quoter/common/models"
	"github.com/google/uuid"
)

const untitledZap = "Untitled Zap"

// ExtractPending lists the zaps of a Zapier export without billing any of
// them. A single export can bundle dozens of unrelated zaps, so inclusion is
// left to an explicit user selection (see ConfirmSelection).
func ExtractPending(doc map[string]any, fileName string, pricePerNode int) []models.PendingZapierWorkflow {
	zaps, _ := arrayField(doc, "zaps")

	pending := make([]models.PendingZapierWorkflow, 0, len(zaps))
	for _, z := range zaps {
		zap, ok := z.(map[string]any)
		if !ok {
			continue
		}

		id, ok := idField(zap, "id")
		if !ok {
			id = uuid.New().String()
		}

		title, ok := stringField(zap, "title")
		if !ok {
			title = untitledZap
		}

		status := models.ZapStatusOff
		if s, _ := zap["status"].(string); s == string(models.ZapStatusOn) {
			status = models.ZapStatusOn
		}

		// Only the top-level keys of the node map are counted
		nodeCount := 0
		if nodes, ok := objectField(zap, "nodes"); ok {
			nodeCount = len(nodes)
		}

		pending = append(pending, models.PendingZapierWorkflow{
			ID:        id,
			Title:     title,
			Status:    status,
			NodeCount: nodeCount,
			Price:     nodeCount * pricePerNode,
			FileName:  fileName,
		})
	}

	return pending
}

// ConfirmSelection turns the zaps the user picked into billable workflows.
// Per-node detail is not carried through the selection step.
func ConfirmSelection(selected []models.PendingZapierWorkflow, pricePerNode int) []models.Workflow {
	workflows := make([]models.Workflow, 0, len(selected))
	for _, p := range selected {
		workflows = append(workflows, models.NewWorkflow(
			models.PlatformZapier,
			p.FileName,
			p.Title,
			p.NodeCount,
			nil,
			pricePerNode,
		))
	}
	return workflows
}
