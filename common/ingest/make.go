package ingest

import "github.com/flowshift/quoter/common/models"

// NormalizeMake flattens a Make.com blueprint into a Workflow.
//
// Steps are visited depth-first, branch-first: a step is recorded, then its
// router branches, error handlers and iterator body are walked before the
// next sibling. A module id reachable through several branches counts once.
func NormalizeMake(doc map[string]any, fileName string, pricePerNode int) models.Workflow {
	m := &makeWalker{seen: make(map[string]struct{})}

	if flow, ok := arrayField(doc, "flow"); ok {
		m.walkFlow(flow)
	}

	return models.NewWorkflow(
		models.PlatformMake,
		fileName,
		workflowName(doc, fileName),
		len(m.nodes),
		m.nodes,
		pricePerNode,
	)
}

type makeWalker struct {
	seen  map[string]struct{}
	nodes []models.Node
}

func (m *makeWalker) walkFlow(flow []any) {
	for _, item := range flow {
		step, ok := item.(map[string]any)
		if !ok {
			continue
		}
		m.visit(step)
	}
}

func (m *makeWalker) visit(step map[string]any) {
	if id, ok := idField(step, "id"); ok {
		if _, dup := m.seen[id]; !dup {
			m.seen[id] = struct{}{}
			m.nodes = append(m.nodes, models.Node{
				Name: makeStepName(step),
				Type: makeStepType(step),
			})
		}
	}

	// Router branches
	if routes, ok := arrayField(step, "routes"); ok {
		for _, r := range routes {
			route, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if flow, ok := arrayField(route, "flow"); ok {
				m.walkFlow(flow)
			}
		}
	}

	// Error handler directives
	if onerror, ok := arrayField(step, "onerror"); ok {
		m.walkFlow(onerror)
	}

	// Iterator body
	if iterate, ok := objectField(step, "iterate"); ok {
		if flow, ok := arrayField(iterate, "flow"); ok {
			m.walkFlow(flow)
		}
	}
}

func makeStepName(step map[string]any) string {
	if name, ok := stringField(step, "name"); ok {
		return name
	}

	if metadata, ok := objectField(step, "metadata"); ok {
		if designer, ok := objectField(metadata, "designer"); ok {
			if name, ok := stringField(designer, "name"); ok {
				return name
			}
		}
	}

	if module, ok := stringField(step, "module"); ok {
		return module
	}

	return "Unknown"
}

func makeStepType(step map[string]any) string {
	if module, ok := stringField(step, "module"); ok {
		return module
	}
	return "unknown"
}
