// Package aggregation holds the running collection of priced workflows for one
// quoting session.
//
// State is a plain value: callers decide where it lives (memory, Redis) and
// how updates are serialized. Every derived figure is recomputed from the
// collection on demand so nothing can drift from it.
package aggregation

import (
	"errors"
	"fmt"

	"github.com/flowshift/quoter/common/ingest"
	"github.com/flowshift/quoter/common/models"
)

// ErrUnknownZap is returned when a selection names a zap that is not pending
var ErrUnknownZap = errors.New("unknown zap")

// Rules are the pricing constants applied to a summary
type Rules struct {
	PricePerNode int
	// Floor applied to a non-empty quote, 0 disables it
	MinimumPrice int
	Currency     string
}

// DefaultRules returns the standard pricing rules
func DefaultRules() Rules {
	return Rules{
		PricePerNode: models.DefaultPricePerNode,
		MinimumPrice: 200,
		Currency:     "usd",
	}
}

// State is the live workflow collection plus the zaps awaiting selection
type State struct {
	Workflows []models.Workflow              `json:"workflows"`
	Pending   []models.PendingZapierWorkflow `json:"pending"`
}

// New returns an empty state
func New() *State {
	return &State{
		Workflows: []models.Workflow{},
		Pending:   []models.PendingZapierWorkflow{},
	}
}

// Clone returns a deep copy of s
func (s *State) Clone() *State {
	cp := &State{
		Workflows: make([]models.Workflow, 0, len(s.Workflows)),
		Pending:   make([]models.PendingZapierWorkflow, len(s.Pending)),
	}
	for _, wf := range s.Workflows {
		cp.Workflows = append(cp.Workflows, wf.Clone())
	}
	copy(cp.Pending, s.Pending)
	return cp
}

// Add appends workflows. Existing entries are never modified.
func (s *State) Add(workflows ...models.Workflow) {
	for _, wf := range workflows {
		s.Workflows = append(s.Workflows, wf.Clone())
	}
}

// AddPending stores zaps extracted from one file. A re-upload of the same
// file replaces its earlier pending entries.
func (s *State) AddPending(fileName string, pending []models.PendingZapierWorkflow) {
	s.Pending = filter(s.Pending, func(p models.PendingZapierWorkflow) bool {
		return p.FileName != fileName
	})
	s.Pending = append(s.Pending, pending...)
}

// RemoveByFileName drops every workflow and pending zap that came from
// fileName, across all platforms. It returns the number of workflows removed.
func (s *State) RemoveByFileName(fileName string) int {
	before := len(s.Workflows)
	s.Workflows = filter(s.Workflows, func(wf models.Workflow) bool {
		return wf.FileName != fileName
	})
	s.Pending = filter(s.Pending, func(p models.PendingZapierWorkflow) bool {
		return p.FileName != fileName
	})
	return before - len(s.Workflows)
}

// ClearPlatform drops every workflow of one platform and leaves the rest
// untouched. It returns the number of workflows removed.
func (s *State) ClearPlatform(platform models.Platform) int {
	before := len(s.Workflows)
	s.Workflows = filter(s.Workflows, func(wf models.Workflow) bool {
		return wf.Platform != platform
	})
	return before - len(s.Workflows)
}

// ReplaceZapier swaps the confirmed Zapier subset for workflows.
// A new selection round never merges with the previous one.
func (s *State) ReplaceZapier(workflows []models.Workflow) {
	s.ClearPlatform(models.PlatformZapier)
	s.Add(workflows...)
}

// SelectZaps confirms the pending zaps with the given ids and replaces the
// current Zapier selection with them. Ids are matched in pending order.
func (s *State) SelectZaps(ids []string, pricePerNode int) ([]models.Workflow, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = false
	}

	selected := make([]models.PendingZapierWorkflow, 0, len(ids))
	for _, p := range s.Pending {
		if _, ok := wanted[p.ID]; ok {
			wanted[p.ID] = true
			selected = append(selected, p)
		}
	}

	for id, found := range wanted {
		if !found {
			return nil, fmt.Errorf("select zap %q: %w", id, ErrUnknownZap)
		}
	}

	workflows := ingest.ConfirmSelection(selected, pricePerNode)
	s.ReplaceZapier(workflows)
	return workflows, nil
}

// Reset returns the state to its initial empty value
func (s *State) Reset() {
	s.Workflows = []models.Workflow{}
	s.Pending = []models.PendingZapierWorkflow{}
}

// Summary folds the current collection into totals
func (s *State) Summary(rules Rules) models.AnalysisSummary {
	summary := models.ZeroSummary(rules.PricePerNode)

	for _, wf := range s.Workflows {
		summary.TotalNodes += wf.TotalNodes
		summary.TotalPrice += wf.TotalPrice
		summary.TotalWorkflows++
		summary.CountsByPlatform[wf.Platform]++
	}

	summary.QuotedPrice = QuotedPrice(summary.TotalPrice, summary.TotalNodes, rules.MinimumPrice)
	return summary
}

// QuotedPrice applies the minimum price floor to a non-empty selection
func QuotedPrice(totalPrice, totalNodes, minimumPrice int) int {
	if totalNodes == 0 {
		return 0
	}
	if totalPrice < minimumPrice {
		return minimumPrice
	}
	return totalPrice
}

// ByPlatform groups the workflows by platform. Every known platform has an
// entry, empty when it has no workflows.
func (s *State) ByPlatform() map[models.Platform][]models.Workflow {
	groups := make(map[models.Platform][]models.Workflow, len(models.KnownPlatforms))
	for _, p := range models.KnownPlatforms {
		groups[p] = []models.Workflow{}
	}
	for _, wf := range s.Workflows {
		groups[wf.Platform] = append(groups[wf.Platform], wf.Clone())
	}
	return groups
}

// Checkout builds the payload handed to the payment collaborator
func (s *State) Checkout(rules Rules) models.CheckoutPayload {
	summary := s.Summary(rules)

	workflows := make([]models.Workflow, 0, len(s.Workflows))
	for _, wf := range s.Workflows {
		workflows = append(workflows, wf.Clone())
	}

	return models.CheckoutPayload{
		Amount:     int64(summary.QuotedPrice) * 100,
		Currency:   rules.Currency,
		TotalNodes: summary.TotalNodes,
		Workflows:  workflows,
	}
}

// PendingFor returns the pending zaps, optionally restricted to one file
func (s *State) PendingFor(fileName string) []models.PendingZapierWorkflow {
	if fileName == "" {
		out := make([]models.PendingZapierWorkflow, len(s.Pending))
		copy(out, s.Pending)
		return out
	}
	return filter(s.Pending, func(p models.PendingZapierWorkflow) bool {
		return p.FileName == fileName
	})
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
