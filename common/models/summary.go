package models

// AnalysisSummary is derived from the current workflow collection and never stored
type AnalysisSummary struct {
	TotalNodes       int              `json:"totalNodes"`
	TotalPrice       int              `json:"totalPrice"`
	TotalWorkflows   int              `json:"totalWorkflows"`
	PricePerNode     int              `json:"pricePerNode"`
	CountsByPlatform map[Platform]int `json:"countsByPlatform"`

	// TotalPrice with the minimum price floor applied (0 when nothing is selected)
	QuotedPrice int `json:"quotedPrice"`
}

// ZeroSummary is the summary of an empty collection
func ZeroSummary(pricePerNode int) AnalysisSummary {
	counts := make(map[Platform]int, len(KnownPlatforms))
	for _, p := range KnownPlatforms {
		counts[p] = 0
	}
	return AnalysisSummary{
		PricePerNode:     pricePerNode,
		CountsByPlatform: counts,
	}
}

// CheckoutPayload is handed untouched to the payment collaborator
type CheckoutPayload struct {
	// Amount in minor currency units (cents)
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	TotalNodes int        `json:"totalNodes"`
	Workflows  []Workflow `json:"workflows"`
}
