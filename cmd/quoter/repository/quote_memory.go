package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/flowshift/quoter/common/models"
	"github.com/google/uuid"
)

// MemoryQuoteRepository keeps quotes in process when no database is configured
type MemoryQuoteRepository struct {
	mu     sync.RWMutex
	quotes map[uuid.UUID]*models.Quote
}

// NewMemoryQuoteRepository creates an empty in-memory repository
func NewMemoryQuoteRepository() *MemoryQuoteRepository {
	return &MemoryQuoteRepository{quotes: make(map[uuid.UUID]*models.Quote)}
}

// Create stores a copy of quote
func (r *MemoryQuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.quotes[quote.QuoteID]; !exists {
		r.quotes[quote.QuoteID] = cloneQuote(quote)
	}
	return nil
}

// GetByID retrieves a quote by id
func (r *MemoryQuoteRepository) GetByID(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quote, ok := r.quotes[quoteID]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	return cloneQuote(quote), nil
}

// ListBySession retrieves the most recent quotes of a session, newest first
func (r *MemoryQuoteRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var quotes []*models.Quote
	for _, q := range r.quotes {
		if q.SessionID == sessionID {
			quotes = append(quotes, cloneQuote(q))
		}
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})

	if limit > 0 && len(quotes) > limit {
		quotes = quotes[:limit]
	}
	return quotes, nil
}

func cloneQuote(q *models.Quote) *models.Quote {
	cp := *q
	cp.Workflows = make([]models.Workflow, 0, len(q.Workflows))
	for _, wf := range q.Workflows {
		cp.Workflows = append(cp.Workflows, wf.Clone())
	}
	return &cp
}
