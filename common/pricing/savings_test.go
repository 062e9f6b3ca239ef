package pricing

import (
	"testing"

	"github.com/flowshift/quoter/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateMonthlyTasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		workflowCount int
		execs         float64
		want          int
	}{
		{name: "single execution", workflowCount: 1, execs: 1, want: 75},
		{name: "no workflows", workflowCount: 0, execs: 20, want: 0},
		{name: "average usage", workflowCount: 10, execs: 20, want: 15000},
		{name: "rounds half up", workflowCount: 3, execs: 0.5, want: 113},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EstimateMonthlyTasks(tt.workflowCount, tt.execs))
		})
	}
}

func TestFindCheapestTier(t *testing.T) {
	tables := DefaultTables()

	plan, cost := FindCheapestTier(tables.Zapier, 15000)
	assert.Equal(t, "Team", plan.Name)
	assert.InDelta(t, 558.50, cost, 0.001)

	plan, cost = FindCheapestTier(tables.Make, 15000)
	assert.Equal(t, "Core", plan.Name)
	assert.InDelta(t, 16.59, cost, 0.001)

	plan, cost = FindCheapestTier(tables.Make, 0)
	assert.Equal(t, "Free", plan.Name)
	assert.Equal(t, 0.0, cost)
}

func TestFindCheapestTier_TieGoesToFirst(t *testing.T) {
	schedule := PlatformPricing{
		Platform: models.PlatformMake,
		Plans: []PricingPlan{
			{Name: "First", MonthlyPrice: 10, IncludedTasks: 100},
			{Name: "Second", MonthlyPrice: 10, IncludedTasks: 100},
		},
	}

	plan, _ := FindCheapestTier(schedule, 50)
	assert.Equal(t, "First", plan.Name)
}

func TestCalculateSavings(t *testing.T) {
	result := CalculateSavings(DefaultTables(), SavingsInput{
		TotalNodes:             50,
		WorkflowCount:          10,
		MigrationPrice:         1000,
		ExecsPerDayPerWorkflow: 20,
	})

	assert.Equal(t, 15000, result.MonthlyTasks)
	require.Len(t, result.Comparisons, 2)
	assert.Equal(t, "Team", result.RecommendedPlan(models.PlatformZapier))
	assert.Equal(t, "Core", result.RecommendedPlan(models.PlatformMake))

	zapier, ok := result.Comparison(models.PlatformZapier)
	require.True(t, ok)
	assert.InDelta(t, 558.50, zapier.MonthlySavings, 0.001)
	assert.InDelta(t, 6702.00, zapier.AnnualSavings, 0.001)

	assert.InDelta(t, 287.55, result.AverageMonthlySavings, 0.011)
	assert.Equal(t, 4, result.BreakEvenMonths)
}

func TestCalculateSavings_SelfHostCost(t *testing.T) {
	result := CalculateSavings(DefaultTables(), SavingsInput{
		WorkflowCount:          10,
		MigrationPrice:         1000,
		ExecsPerDayPerWorkflow: 20,
		SelfHostCost:           100,
	})

	mk, ok := result.Comparison(models.PlatformMake)
	require.True(t, ok)
	assert.InDelta(t, -83.41, mk.MonthlySavings, 0.001, "savings can be negative")

	zapier, _ := result.Comparison(models.PlatformZapier)
	assert.InDelta(t, 458.50, zapier.MonthlySavings, 0.001)
	assert.GreaterOrEqual(t, result.BreakEvenMonths, 0)
}

func TestCalculateSavings_NoSavings(t *testing.T) {
	result := CalculateSavings(DefaultTables(), SavingsInput{
		WorkflowCount:          1,
		MigrationPrice:         500,
		ExecsPerDayPerWorkflow: 1,
		SelfHostCost:           50,
	})

	assert.Less(t, result.AverageMonthlySavings, 0.0)
	assert.Equal(t, 0, result.BreakEvenMonths)
}

func TestBreakEvenMonths(t *testing.T) {
	assert.Equal(t, 0, BreakEvenMonths(1000, 0))
	assert.Equal(t, 0, BreakEvenMonths(1000, -25))
	assert.Equal(t, 0, BreakEvenMonths(0, 100))
	assert.Equal(t, 4, BreakEvenMonths(1000, 300))
	assert.Equal(t, 1, BreakEvenMonths(200, 200))
}
