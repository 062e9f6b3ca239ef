package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Scenario is a named daily execution rate
type Scenario struct {
	Name                   string  `json:"name"`
	ExecsPerDayPerWorkflow float64 `json:"execsPerDayPerWorkflow"`
}

// DefaultScenarios are the usage levels shown side by side
var DefaultScenarios = []Scenario{
	{Name: "light", ExecsPerDayPerWorkflow: 5},
	{Name: "average", ExecsPerDayPerWorkflow: 20},
	{Name: "heavy", ExecsPerDayPerWorkflow: 50},
}

// ScenarioSavings pairs a scenario with its projection
type ScenarioSavings struct {
	Scenario Scenario         `json:"scenario"`
	Savings  MigrationSavings `json:"savings"`
}

// Calculator computes savings against a fixed set of tables.
// The tables are copied on construction and never change afterwards.
type Calculator struct {
	tables Tables
}

// NewCalculator validates tables and freezes a copy of them
func NewCalculator(tables Tables) (*Calculator, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pricing tables: %w", err)
	}
	return &Calculator{tables: tables.clone()}, nil
}

// DefaultCalculator uses the built-in tables
func DefaultCalculator() *Calculator {
	return &Calculator{tables: DefaultTables()}
}

// Tables returns a copy of the tables in use
func (c *Calculator) Tables() Tables {
	return c.tables.clone()
}

// CalculateSavings projects savings for one execution rate
func (c *Calculator) CalculateSavings(in SavingsInput) MigrationSavings {
	return CalculateSavings(c.tables, in)
}

// CalculateScenarios projects savings for each scenario. The execution rate
// in base is ignored.
func (c *Calculator) CalculateScenarios(base SavingsInput, scenarios []Scenario) []ScenarioSavings {
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios
	}

	out := make([]ScenarioSavings, 0, len(scenarios))
	for _, s := range scenarios {
		in := base
		in.ExecsPerDayPerWorkflow = s.ExecsPerDayPerWorkflow
		out = append(out, ScenarioSavings{
			Scenario: s,
			Savings:  CalculateSavings(c.tables, in),
		})
	}
	return out
}

// ApplyOverrides merges an RFC 7396 JSON merge patch onto base and validates
// the result. Arrays in the patch replace whole plan lists.
func ApplyOverrides(base Tables, patch []byte) (Tables, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return Tables{}, fmt.Errorf("marshal pricing tables: %w", err)
	}

	merged, err := jsonpatch.MergePatch(baseJSON, patch)
	if err != nil {
		return Tables{}, fmt.Errorf("apply pricing overrides: %w", err)
	}

	var tables Tables
	if err := json.Unmarshal(merged, &tables); err != nil {
		return Tables{}, fmt.Errorf("decode pricing overrides: %w", err)
	}

	if err := tables.Validate(); err != nil {
		return Tables{}, fmt.Errorf("invalid pricing overrides: %w", err)
	}

	return tables, nil
}

// LoadOverrides applies the merge patch stored at path to the default tables.
// An empty path returns the defaults.
func LoadOverrides(path string) (Tables, error) {
	if path == "" {
		return DefaultTables(), nil
	}

	patch, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read pricing overrides %s: %w", path, err)
	}

	return ApplyOverrides(DefaultTables(), patch)
}
