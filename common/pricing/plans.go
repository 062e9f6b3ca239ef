// Package pricing compares incumbent automation platform costs with a one-off
// migration price.
package pricing

import (
	"fmt"

	"github.com/flowshift/quoter/common/models"
)

// PricingPlan is one subscription tier of an incumbent platform
type PricingPlan struct {
	Name          string  `json:"name"`
	MonthlyPrice  float64 `json:"monthlyPrice"`
	IncludedTasks int     `json:"includedTasks"`
	// Price of each task above IncludedTasks
	OverageRate float64 `json:"overageRate"`
}

// PlatformPricing is the ordered tier schedule of one platform
type PlatformPricing struct {
	Platform models.Platform `json:"platform"`
	Plans    []PricingPlan   `json:"plans"`
}

// Tables holds the schedules of both incumbent platforms
type Tables struct {
	Zapier PlatformPricing `json:"zapier"`
	Make   PlatformPricing `json:"make"`
}

// DefaultTables returns the built-in price schedules (USD, monthly billing)
func DefaultTables() Tables {
	return Tables{
		Zapier: PlatformPricing{
			Platform: models.PlatformZapier,
			Plans: []PricingPlan{
				{Name: "Free", MonthlyPrice: 0, IncludedTasks: 100, OverageRate: 0.05},
				{Name: "Professional", MonthlyPrice: 29.99, IncludedTasks: 750, OverageRate: 0.04},
				{Name: "Team", MonthlyPrice: 103.50, IncludedTasks: 2000, OverageRate: 0.035},
				{Name: "Enterprise", MonthlyPrice: 599.00, IncludedTasks: 50000, OverageRate: 0.012},
			},
		},
		Make: PlatformPricing{
			Platform: models.PlatformMake,
			Plans: []PricingPlan{
				{Name: "Free", MonthlyPrice: 0, IncludedTasks: 1000, OverageRate: 0.01},
				{Name: "Core", MonthlyPrice: 10.59, IncludedTasks: 10000, OverageRate: 0.0012},
				{Name: "Pro", MonthlyPrice: 34.12, IncludedTasks: 40000, OverageRate: 0.001},
				{Name: "Teams", MonthlyPrice: 117.00, IncludedTasks: 150000, OverageRate: 0.0009},
				{Name: "Enterprise", MonthlyPrice: 299.00, IncludedTasks: 500000, OverageRate: 0.0007},
			},
		},
	}
}

// Platforms returns the schedules in comparison order
func (t Tables) Platforms() []PlatformPricing {
	return []PlatformPricing{t.Zapier, t.Make}
}

// Validate checks that every schedule is usable
func (t Tables) Validate() error {
	for _, p := range t.Platforms() {
		if len(p.Plans) == 0 {
			return fmt.Errorf("%s: at least one plan is required", p.Platform)
		}
		for i, plan := range p.Plans {
			if plan.Name == "" {
				return fmt.Errorf("%s plan %d: name is required", p.Platform, i)
			}
			if plan.MonthlyPrice < 0 || plan.OverageRate < 0 || plan.IncludedTasks < 0 {
				return fmt.Errorf("%s plan %q: prices and allowances must not be negative", p.Platform, plan.Name)
			}
		}
	}
	return nil
}

func (t Tables) clone() Tables {
	cp := t
	cp.Zapier.Plans = append([]PricingPlan(nil), t.Zapier.Plans...)
	cp.Make.Plans = append([]PricingPlan(nil), t.Make.Plans...)
	return cp
}
