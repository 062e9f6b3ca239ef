package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flowshift/quoter/common/aggregation"
	"github.com/flowshift/quoter/common/config"
	"github.com/flowshift/quoter/common/ingest"
	"github.com/flowshift/quoter/common/logger"
	"github.com/flowshift/quoter/common/models"
	"github.com/flowshift/quoter/common/pricing"
	cli "github.com/urfave/cli/v3"
)

type fileReport struct {
	FileName    string          `json:"fileName"`
	Platform    models.Platform `json:"platform"`
	Status      string          `json:"status"`
	Code        string          `json:"code,omitempty"`
	Message     string          `json:"message,omitempty"`
	TotalNodes  int             `json:"totalNodes,omitempty"`
	PendingZaps int             `json:"pendingZaps,omitempty"`
}

type analyzeReport struct {
	Files      []fileReport                   `json:"files"`
	Workflows  []models.Workflow              `json:"workflows"`
	Unselected []models.PendingZapierWorkflow `json:"unselectedZaps"`
	Summary    models.AnalysisSummary         `json:"summary"`
	Savings    *pricing.MigrationSavings      `json:"savings,omitempty"`
	Scenarios  []pricing.ScenarioSavings      `json:"scenarios,omitempty"`
	Checkout   models.CheckoutPayload         `json:"checkout"`
}

type plansReport struct {
	PricePerNode int                `json:"pricePerNode"`
	MinimumPrice int                `json:"minimumPrice"`
	Currency     string             `json:"currency"`
	Plans        pricing.Tables     `json:"plans"`
	Scenarios    []pricing.Scenario `json:"scenarios"`
}

// environment is the configuration shared by both commands
type environment struct {
	cfg        *config.Config
	rules      aggregation.Rules
	calculator *pricing.Calculator
}

func loadEnvironment(cmd *cli.Command) (*environment, error) {
	cfg, err := config.Load("quotectl")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	tables, err := pricing.LoadOverrides(cmd.String("pricing-overrides"))
	if err != nil {
		return nil, err
	}
	calculator, err := pricing.NewCalculator(tables)
	if err != nil {
		return nil, err
	}

	return &environment{
		cfg: cfg,
		rules: aggregation.Rules{
			PricePerNode: cfg.Pricing.PricePerNode,
			MinimumPrice: cfg.Pricing.MinimumPrice,
			Currency:     cfg.Pricing.Currency,
		},
		calculator: calculator,
	}, nil
}

func runAnalyze(ctx context.Context, cmd *cli.Command, out, logOut io.Writer) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errors.New("at least one file is required")
	}
	if cmd.Bool("all-zaps") && len(cmd.StringSlice("zap")) > 0 {
		return errors.New("--zap and --all-zaps are mutually exclusive")
	}
	if cmd.Float("self-host-cost") < 0 || cmd.Float("execs") < 0 {
		return errors.New("usage figures must not be negative")
	}

	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(cmd.String("log-level"), env.cfg.Service.LogFormat, logOut)

	limits := ingest.Limits{
		MaxFileSize:  env.cfg.Limits.MaxFileSizeBytes,
		MaxNodeCount: env.cfg.Limits.MaxNodeCount,
		MaxDepth:     env.cfg.Limits.MaxTraversalDepth,
	}
	processor := ingest.NewProcessor(ingest.NewGuard(limits), env.rules.PricePerNode, env.cfg.Limits.IngestConcurrency)

	files := make([]ingest.File, 0, len(paths))
	for _, path := range paths {
		f, err := readFile(path, limits.MaxFileSize)
		if err != nil {
			return err
		}
		files = append(files, f)
	}

	results, err := processor.ProcessBatch(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to process files: %w", err)
	}

	state := aggregation.New()
	report := analyzeReport{Files: make([]fileReport, 0, len(results))}

	for _, r := range results {
		fr := fileReport{FileName: r.FileName, Platform: r.Platform}
		switch {
		case r.Err != nil:
			fr.Status, fr.Code, fr.Message = "rejected", ingest.KindCode(r.Err), r.Err.Error()
			log.WithFile(r.FileName).Warn("file rejected", "code", fr.Code)
		case r.Warning != nil:
			fr.Status, fr.Code, fr.Message = "skipped", ingest.KindCode(r.Warning), r.Warning.Error()
		case r.Workflow != nil:
			fr.Status, fr.TotalNodes = "accepted", r.Workflow.TotalNodes
			state.RemoveByFileName(r.FileName)
			state.Add(*r.Workflow)
		default:
			fr.Status, fr.PendingZaps = "pending_selection", len(r.Pending)
			state.RemoveByFileName(r.FileName)
			state.AddPending(r.FileName, r.Pending)
		}
		report.Files = append(report.Files, fr)
	}

	zapIDs := cmd.StringSlice("zap")
	if cmd.Bool("all-zaps") {
		zapIDs = nil
		for _, z := range state.PendingFor("") {
			zapIDs = append(zapIDs, z.ID)
		}
	}
	if len(zapIDs) > 0 {
		if _, err := state.SelectZaps(zapIDs, env.rules.PricePerNode); err != nil {
			return err
		}
	}

	selected := make(map[string]bool, len(zapIDs))
	for _, id := range zapIDs {
		selected[id] = true
	}
	report.Unselected = []models.PendingZapierWorkflow{}
	for _, z := range state.PendingFor("") {
		if !selected[z.ID] {
			report.Unselected = append(report.Unselected, z)
		}
	}

	report.Workflows = state.Workflows
	report.Summary = state.Summary(env.rules)
	report.Checkout = state.Checkout(env.rules)

	in := pricing.SavingsInput{
		TotalNodes:     report.Summary.TotalNodes,
		WorkflowCount:  report.Summary.TotalWorkflows,
		MigrationPrice: report.Summary.QuotedPrice,
		SelfHostCost:   cmd.Float("self-host-cost"),
	}
	if cmd.IsSet("execs") {
		in.ExecsPerDayPerWorkflow = cmd.Float("execs")
		savings := env.calculator.CalculateSavings(in)
		report.Savings = &savings
	} else {
		report.Scenarios = env.calculator.CalculateScenarios(in, pricing.DefaultScenarios)
	}

	log.Debug("analysis complete", "files", len(files), "total_nodes", report.Summary.TotalNodes)
	return writeJSON(out, report)
}

// readFile loads a file from disk, skipping the read when it is already over
// the size limit so the guard can reject it by size alone
func readFile(path string, maxSize int64) (ingest.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ingest.File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f := ingest.File{Name: filepath.Base(path), Size: info.Size()}
	if info.Size() > maxSize {
		return f, nil
	}

	f.Content, err = os.ReadFile(path)
	if err != nil {
		return ingest.File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return f, nil
}

func runPlans(cmd *cli.Command, out io.Writer) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	return writeJSON(out, plansReport{
		PricePerNode: env.rules.PricePerNode,
		MinimumPrice: env.rules.MinimumPrice,
		Currency:     env.rules.Currency,
		Plans:        env.calculator.Tables(),
		Scenarios:    pricing.DefaultScenarios,
	})
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
