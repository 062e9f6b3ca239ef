package pricing

import (
	"math"

	"github.com/flowshift/quoter/common/models"
)

const (
	// Days in a billing month
	daysPerMonth = 30
	// Average tasks consumed by a single workflow execution
	tasksPerExecution = 2.5
)

// EstimateMonthlyTasks estimates the task/operation volume of a set of workflows
func EstimateMonthlyTasks(workflowCount int, execsPerDayPerWorkflow float64) int {
	return int(math.Round(float64(workflowCount) * execsPerDayPerWorkflow * daysPerMonth * tasksPerExecution))
}

// PlanCost is the monthly cost of plan at the given volume
func PlanCost(plan PricingPlan, monthlyTasks int) float64 {
	overage := monthlyTasks - plan.IncludedTasks
	if overage < 0 {
		overage = 0
	}
	return plan.MonthlyPrice + float64(overage)*plan.OverageRate
}

// FindCheapestTier returns the plan with the lowest total monthly cost.
// Ties go to the plan declared first.
func FindCheapestTier(schedule PlatformPricing, monthlyTasks int) (PricingPlan, float64) {
	var (
		best     PricingPlan
		bestCost float64
		found    bool
	)

	for _, plan := range schedule.Plans {
		cost := PlanCost(plan, monthlyTasks)
		if !found || cost < bestCost {
			best, bestCost, found = plan, cost, true
		}
	}

	return best, roundCents(bestCost)
}

// SavingsInput are the figures a savings projection is computed from
type SavingsInput struct {
	TotalNodes             int
	WorkflowCount          int
	MigrationPrice         int
	ExecsPerDayPerWorkflow float64
	// Monthly cost of running the migrated workflows, 0 when unknown
	SelfHostCost float64
}

// PlatformSavings compares one incumbent platform against self hosting
type PlatformSavings struct {
	Platform             models.Platform `json:"platform"`
	RecommendedPlan      string          `json:"recommendedPlan"`
	IncumbentMonthlyCost float64         `json:"incumbentMonthlyCost"`
	MonthlySavings       float64         `json:"monthlySavings"`
	AnnualSavings        float64         `json:"annualSavings"`
}

// MigrationSavings is a savings projection for one usage scenario
type MigrationSavings struct {
	TotalNodes             int               `json:"totalNodes"`
	WorkflowCount          int               `json:"workflowCount"`
	MigrationPrice         int               `json:"migrationPrice"`
	ExecsPerDayPerWorkflow float64           `json:"execsPerDayPerWorkflow"`
	SelfHostCost           float64           `json:"selfHostCost"`
	MonthlyTasks           int               `json:"monthlyTasks"`
	Comparisons            []PlatformSavings `json:"comparisons"`
	AverageMonthlySavings  float64           `json:"averageMonthlySavings"`
	BreakEvenMonths        int               `json:"breakEvenMonths"`
}

// RecommendedPlan returns the cheapest plan name found for platform
func (m MigrationSavings) RecommendedPlan(platform models.Platform) string {
	for _, c := range m.Comparisons {
		if c.Platform == platform {
			return c.RecommendedPlan
		}
	}
	return ""
}

// Comparison returns the comparison for platform
func (m MigrationSavings) Comparison(platform models.Platform) (PlatformSavings, bool) {
	for _, c := range m.Comparisons {
		if c.Platform == platform {
			return c, true
		}
	}
	return PlatformSavings{}, false
}

// CalculateSavings projects savings against both incumbent schedules.
// It is a pure function of its inputs and the tables.
func CalculateSavings(tables Tables, in SavingsInput) MigrationSavings {
	monthlyTasks := EstimateMonthlyTasks(in.WorkflowCount, in.ExecsPerDayPerWorkflow)

	result := MigrationSavings{
		TotalNodes:             in.TotalNodes,
		WorkflowCount:          in.WorkflowCount,
		MigrationPrice:         in.MigrationPrice,
		ExecsPerDayPerWorkflow: in.ExecsPerDayPerWorkflow,
		SelfHostCost:           in.SelfHostCost,
		MonthlyTasks:           monthlyTasks,
	}

	platforms := tables.Platforms()
	result.Comparisons = make([]PlatformSavings, 0, len(platforms))

	var total float64
	for _, schedule := range platforms {
		plan, cost := FindCheapestTier(schedule, monthlyTasks)
		monthly := roundCents(cost - in.SelfHostCost)
		total += monthly

		result.Comparisons = append(result.Comparisons, PlatformSavings{
			Platform:             schedule.Platform,
			RecommendedPlan:      plan.Name,
			IncumbentMonthlyCost: cost,
			MonthlySavings:       monthly,
			AnnualSavings:        roundCents(monthly * 12),
		})
	}

	if len(platforms) > 0 {
		result.AverageMonthlySavings = roundCents(total / float64(len(platforms)))
	}
	result.BreakEvenMonths = BreakEvenMonths(in.MigrationPrice, result.AverageMonthlySavings)

	return result
}

// BreakEvenMonths is the number of months of savings needed to recover the
// migration price. It is 0 when there are no savings to recover it with.
func BreakEvenMonths(migrationPrice int, averageMonthlySavings float64) int {
	if averageMonthlySavings <= 0 || migrationPrice <= 0 {
		return 0
	}
	return int(math.Ceil(float64(migrationPrice) / averageMonthlySavings))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
