package models

import (
	"time"

	"github.com/google/uuid"
)

// Quote is a persisted checkout payload
// Maps to: quote table
type Quote struct {
	// Unique quote ID
	QuoteID uuid.UUID `db:"quote_id" json:"quoteId"`

	// Session the quote was generated from
	SessionID string `db:"session_id" json:"sessionId"`

	// Amount in minor currency units
	Amount   int64  `db:"amount" json:"amount"`
	Currency string `db:"currency" json:"currency"`

	TotalNodes int `db:"total_nodes" json:"totalNodes"`

	// Workflows snapshot (JSONB)
	Workflows []Workflow `db:"workflows" json:"workflows"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Payload returns the checkout payload the quote was built from
func (q *Quote) Payload() CheckoutPayload {
	return CheckoutPayload{
		Amount:     q.Amount,
		Currency:   q.Currency,
		TotalNodes: q.TotalNodes,
		Workflows:  q.Workflows,
	}
}
