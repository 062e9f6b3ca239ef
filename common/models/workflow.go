package models

// Platform identifies the automation product a workflow was exported from
type Platform string

const (
	PlatformMake    Platform = "make"
	PlatformZapier  Platform = "zapier"
	PlatformN8n     Platform = "n8n"
	PlatformUnknown Platform = "unknown"
)

// KnownPlatforms lists the platforms that can be aggregated, in display order
var KnownPlatforms = []Platform{PlatformMake, PlatformZapier, PlatformN8n}

// DefaultPricePerNode is the migration price of one node in whole currency units
const DefaultPricePerNode = 20

// ParsePlatform maps a string onto a Platform
// Anything unrecognised becomes PlatformUnknown
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformMake, PlatformZapier, PlatformN8n:
		return Platform(s)
	default:
		return PlatformUnknown
	}
}

// Node is one automation step of an imported workflow
type Node struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Workflow is one billable workflow extracted from an uploaded file
type Workflow struct {
	// Name of the uploaded file the workflow came from
	FileName string `json:"fileName"`

	// Display name taken from the export, falling back to the file name
	WorkflowName string `json:"workflowName"`

	// Billable node count and its price (TotalPrice = TotalNodes * price per node)
	TotalNodes int `json:"totalNodes"`
	TotalPrice int `json:"totalPrice"`

	// Per-node detail. Empty for confirmed Zapier selections.
	Nodes []Node `json:"nodes"`

	Platform Platform `json:"platform"`
}

// NewWorkflow builds a Workflow whose price is derived from its node count
func NewWorkflow(platform Platform, fileName, workflowName string, totalNodes int, nodes []Node, pricePerNode int) Workflow {
	if nodes == nil {
		nodes = []Node{}
	}
	if totalNodes < 0 {
		totalNodes = 0
	}
	return Workflow{
		FileName:     fileName,
		WorkflowName: workflowName,
		TotalNodes:   totalNodes,
		TotalPrice:   totalNodes * pricePerNode,
		Nodes:        nodes,
		Platform:     platform,
	}
}

// Clone returns a copy that shares no slices with w
func (w Workflow) Clone() Workflow {
	nodes := make([]Node, len(w.Nodes))
	copy(nodes, w.Nodes)
	w.Nodes = nodes
	return w
}
