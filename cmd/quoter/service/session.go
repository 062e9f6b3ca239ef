package service

import (
	"context"
	"fmt"
	"time"

	"github.com/flowshift/quoter/cmd/quoter/repository"
	"github.com/flowshift/quoter/common/aggregation"
	"github.com/flowshift/quoter/common/ingest"
	"github.com/flowshift/quoter/common/logger"
	"github.com/flowshift/quoter/common/models"
	"github.com/flowshift/quoter/common/pricing"
	"github.com/flowshift/quoter/common/session"
	"github.com/flowshift/quoter/common/telemetry"
	"github.com/google/uuid"
)

// QuoteStore persists checkout quotes
type QuoteStore interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByID(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Quote, error)
}

// File outcome statuses
const (
	StatusAccepted         = "accepted"
	StatusPendingSelection = "pending_selection"
	StatusRejected         = "rejected"
	StatusSkipped          = "skipped"
)

// SessionView is the client-facing snapshot of a session
type SessionView struct {
	ID         string                                `json:"id"`
	Workflows  []models.Workflow                     `json:"workflows"`
	ByPlatform map[models.Platform][]models.Workflow `json:"byPlatform"`
	Pending    []models.PendingZapierWorkflow        `json:"pendingZaps"`
	Summary    models.AnalysisSummary                `json:"summary"`
	CreatedAt  time.Time                             `json:"createdAt"`
	UpdatedAt  time.Time                             `json:"updatedAt"`
}

// FileOutcome reports what happened to one uploaded file
type FileOutcome struct {
	FileName    string          `json:"fileName"`
	Platform    models.Platform `json:"platform"`
	Status      string          `json:"status"`
	Code        string          `json:"code,omitempty"`
	Message     string          `json:"message,omitempty"`
	TotalNodes  int             `json:"totalNodes,omitempty"`
	PendingZaps int             `json:"pendingZaps,omitempty"`
}

// UploadResult is the outcome of one upload batch
type UploadResult struct {
	Files    []FileOutcome                  `json:"files"`
	Accepted []models.Workflow              `json:"accepted"`
	Pending  []models.PendingZapierWorkflow `json:"pendingZaps"`
	Session  *SessionView                   `json:"session"`
}

// SavingsView is a savings projection for the current selection
type SavingsView struct {
	Summary   models.AnalysisSummary    `json:"summary"`
	Savings   *pricing.MigrationSavings `json:"savings,omitempty"`
	Scenarios []pricing.ScenarioSavings `json:"scenarios,omitempty"`
}

// PricingView describes the constants and plan tables in use
type PricingView struct {
	PricePerNode int                `json:"pricePerNode"`
	MinimumPrice int                `json:"minimumPrice"`
	Currency     string             `json:"currency"`
	Plans        pricing.Tables     `json:"plans"`
	Scenarios    []pricing.Scenario `json:"scenarios"`
}

// SessionService orchestrates ingestion, aggregation, savings and checkout
// for quoting sessions
type SessionService struct {
	store      session.Store
	processor  *ingest.Processor
	calculator *pricing.Calculator
	quotes     QuoteStore
	rules      aggregation.Rules
	maxFiles   int
	telemetry  *telemetry.Telemetry
	log        *logger.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	store session.Store,
	processor *ingest.Processor,
	calculator *pricing.Calculator,
	quotes QuoteStore,
	rules aggregation.Rules,
	maxFiles int,
	telemetry *telemetry.Telemetry,
	log *logger.Logger,
) *SessionService {
	return &SessionService{
		store:      store,
		processor:  processor,
		calculator: calculator,
		quotes:     quotes,
		rules:      rules,
		maxFiles:   maxFiles,
		telemetry:  telemetry,
		log:        log,
	}
}

// Create starts an empty session
func (s *SessionService) Create(ctx context.Context) (*SessionView, error) {
	sess, err := s.store.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.WithContext(ctx).Info("session created", "session_id", sess.ID)
	return s.view(sess), nil
}

// Get returns the current session snapshot
func (s *SessionService) Get(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s.view(sess), nil
}

// Reset drops every workflow and pending zap of the session
func (s *SessionService) Reset(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.store.Update(ctx, sessionID, func(state *aggregation.State) error {
		state.Reset()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}

	s.log.WithContext(ctx).WithSessionID(sessionID).Info("session reset")
	return s.view(sess), nil
}

// Upload processes a batch of files and merges the accepted ones into the
// session. Files are parsed concurrently; the merge is a single atomic
// update so no summary ever reflects half a batch. Uploading a file name
// that is already present replaces its earlier workflows.
func (s *SessionService) Upload(ctx context.Context, sessionID string, files []ingest.File) (*UploadResult, error) {
	start := time.Now()
	defer s.telemetry.RecordDuration("session.upload", start)

	log := s.log.WithContext(ctx).WithSessionID(sessionID)

	if len(files) == 0 {
		return nil, NewValidationError("upload", "no_files", "at least one file is required", ErrNoFiles)
	}
	if len(files) > s.maxFiles {
		return nil, NewValidationError("upload", "too_many_files",
			fmt.Sprintf("%d files exceeds the limit of %d per upload", len(files), s.maxFiles), ErrTooManyFiles)
	}

	// Fail fast before parsing anything for an unknown session
	if _, err := s.store.Get(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	results, err := s.processor.ProcessBatch(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to process upload: %w", err)
	}

	outcome := &UploadResult{
		Files:    make([]FileOutcome, 0, len(results)),
		Accepted: []models.Workflow{},
		Pending:  []models.PendingZapierWorkflow{},
	}

	for _, r := range results {
		fo := FileOutcome{FileName: r.FileName, Platform: r.Platform}

		switch {
		case r.Err != nil:
			fo.Status = StatusRejected
			fo.Code = ingest.KindCode(r.Err)
			fo.Message = r.Err.Error()
			log.WithFile(r.FileName).Warn("file rejected", "code", fo.Code, "error", r.Err)

		case r.Warning != nil:
			fo.Status = StatusSkipped
			fo.Code = ingest.KindCode(r.Warning)
			fo.Message = r.Warning.Error()
			log.WithFile(r.FileName).Info("file skipped", "code", fo.Code)

		case r.Workflow != nil:
			fo.Status = StatusAccepted
			fo.TotalNodes = r.Workflow.TotalNodes
			outcome.Accepted = append(outcome.Accepted, *r.Workflow)

		default:
			fo.Status = StatusPendingSelection
			fo.PendingZaps = len(r.Pending)
			outcome.Pending = append(outcome.Pending, r.Pending...)
		}

		outcome.Files = append(outcome.Files, fo)
	}

	sess, err := s.store.Update(ctx, sessionID, func(state *aggregation.State) error {
		for _, r := range results {
			if !r.Accepted() {
				continue
			}
			state.RemoveByFileName(r.FileName)
			if r.Workflow != nil {
				state.Add(*r.Workflow)
			} else {
				state.AddPending(r.FileName, r.Pending)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply upload: %w", err)
	}

	outcome.Session = s.view(sess)

	log.Info("upload processed",
		"files", len(files),
		"accepted", len(outcome.Accepted),
		"pending_zaps", len(outcome.Pending),
		"total_nodes", outcome.Session.Summary.TotalNodes,
	)

	return outcome, nil
}

// RemoveFile drops every workflow that came from fileName
func (s *SessionService) RemoveFile(ctx context.Context, sessionID, fileName string) (*SessionView, int, error) {
	var removed int
	sess, err := s.store.Update(ctx, sessionID, func(state *aggregation.State) error {
		removed = state.RemoveByFileName(fileName)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to remove file: %w", err)
	}

	s.log.WithContext(ctx).WithSessionID(sessionID).WithFile(fileName).Info("file removed", "workflows", removed)
	return s.view(sess), removed, nil
}

// ClearPlatform drops every workflow of one platform
func (s *SessionService) ClearPlatform(ctx context.Context, sessionID, platform string) (*SessionView, int, error) {
	p := models.ParsePlatform(platform)
	if p == models.PlatformUnknown {
		return nil, 0, NewValidationError("clear platform", "invalid_platform",
			fmt.Sprintf("unknown platform %q", platform), ErrInvalidPlatform)
	}

	var removed int
	sess, err := s.store.Update(ctx, sessionID, func(state *aggregation.State) error {
		removed = state.ClearPlatform(p)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to clear platform: %w", err)
	}

	s.log.WithContext(ctx).WithSessionID(sessionID).Info("platform cleared", "platform", p, "workflows", removed)
	return s.view(sess), removed, nil
}

// PendingZaps lists the zaps awaiting selection
func (s *SessionService) PendingZaps(ctx context.Context, sessionID string) ([]models.PendingZapierWorkflow, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess.State.PendingFor(""), nil
}

// SelectZaps replaces the confirmed Zapier selection with zapIDs
func (s *SessionService) SelectZaps(ctx context.Context, sessionID string, zapIDs []string) (*SessionView, error) {
	sess, err := s.store.Update(ctx, sessionID, func(state *aggregation.State) error {
		_, err := state.SelectZaps(zapIDs, s.rules.PricePerNode)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select zaps: %w", err)
	}

	s.log.WithContext(ctx).WithSessionID(sessionID).Info("zapier selection confirmed", "zaps", len(zapIDs))
	return s.view(sess), nil
}

// Savings projects savings for the current selection. Without an execution
// rate every default scenario is returned.
func (s *SessionService) Savings(ctx context.Context, sessionID string, execsPerDay *float64, selfHostCost float64) (*SavingsView, error) {
	if selfHostCost < 0 || (execsPerDay != nil && *execsPerDay < 0) {
		return nil, NewValidationError("savings", "invalid_usage", "usage figures must not be negative", ErrInvalidUsage)
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	summary := sess.State.Summary(s.rules)
	in := pricing.SavingsInput{
		TotalNodes:     summary.TotalNodes,
		WorkflowCount:  summary.TotalWorkflows,
		MigrationPrice: summary.QuotedPrice,
		SelfHostCost:   selfHostCost,
	}

	view := &SavingsView{Summary: summary}
	if execsPerDay != nil {
		in.ExecsPerDayPerWorkflow = *execsPerDay
		savings := s.calculator.CalculateSavings(in)
		view.Savings = &savings
	} else {
		view.Scenarios = s.calculator.CalculateScenarios(in, pricing.DefaultScenarios)
	}

	return view, nil
}

// Checkout builds the checkout payload of the current selection and
// persists it as a quote
func (s *SessionService) Checkout(ctx context.Context, sessionID string) (*models.Quote, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	payload := sess.State.Checkout(s.rules)
	if payload.TotalNodes == 0 {
		return nil, NewValidationError("checkout", "empty_quote", "select at least one workflow before checking out", ErrEmptyQuote)
	}

	quote := &models.Quote{
		QuoteID:    uuid.New(),
		SessionID:  sessionID,
		Amount:     payload.Amount,
		Currency:   payload.Currency,
		TotalNodes: payload.TotalNodes,
		Workflows:  payload.Workflows,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	s.telemetry.RecordEvent("checkout", map[string]any{
		"session_id":  sessionID,
		"amount":      quote.Amount,
		"total_nodes": quote.TotalNodes,
	})
	s.log.WithContext(ctx).WithSessionID(sessionID).Info("quote created",
		"quote_id", quote.QuoteID,
		"amount", quote.Amount,
		"currency", quote.Currency,
	)

	return quote, nil
}

// GetQuote retrieves a persisted quote. Malformed ids are reported as not
// found.
func (s *SessionService) GetQuote(ctx context.Context, quoteID string) (*models.Quote, error) {
	id, err := uuid.Parse(quoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote %q: %w", quoteID, repository.ErrQuoteNotFound)
	}

	quote, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return quote, nil
}

// ListQuotes returns the latest quotes of a session
func (s *SessionService) ListQuotes(ctx context.Context, sessionID string, limit int) ([]*models.Quote, error) {
	if _, err := s.store.Get(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	quotes, err := s.quotes.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	if quotes == nil {
		quotes = []*models.Quote{}
	}
	return quotes, nil
}

// Pricing describes the active price constants and plan tables
func (s *SessionService) Pricing() PricingView {
	return PricingView{
		PricePerNode: s.rules.PricePerNode,
		MinimumPrice: s.rules.MinimumPrice,
		Currency:     s.rules.Currency,
		Plans:        s.calculator.Tables(),
		Scenarios:    pricing.DefaultScenarios,
	}
}

func (s *SessionService) view(sess *session.Session) *SessionView {
	return &SessionView{
		ID:         sess.ID,
		Workflows:  sess.State.Workflows,
		ByPlatform: sess.State.ByPlatform(),
		Pending:    sess.State.PendingFor(""),
		Summary:    sess.State.Summary(s.rules),
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	}
}
