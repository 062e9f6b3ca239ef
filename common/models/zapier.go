package models

// ZapStatus is the on/off state of a zap in a Zapier export
type ZapStatus string

const (
	ZapStatusOn  ZapStatus = "on"
	ZapStatusOff ZapStatus = "off"
)

// PendingZapierWorkflow is a zap extracted from a Zapier export that the user
// has not yet confirmed for migration. It is not billed until confirmed.
type PendingZapierWorkflow struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    ZapStatus `json:"status"`
	NodeCount int       `json:"nodeCount"`
	Price     int       `json:"price"`
	FileName  string    `json:"fileName"`
}
