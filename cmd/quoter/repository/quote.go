package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flowshift/quoter/common/db"
	"github.com/flowshift/quoter/common/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrQuoteNotFound is returned when no quote has the requested id
var ErrQuoteNotFound = errors.New("quote not found")

// QuoteRepository handles database operations for quotes
type QuoteRepository struct {
	db *db.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *db.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create inserts a new quote
func (r *QuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	workflows, err := json.Marshal(quote.Workflows)
	if err != nil {
		return fmt.Errorf("failed to encode quote workflows: %w", err)
	}

	query := `
		INSERT INTO quote (quote_id, session_id, amount, currency, total_nodes, workflows, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (quote_id) DO NOTHING
	`

	_, err = r.db.Exec(ctx, query,
		quote.QuoteID,
		quote.SessionID,
		quote.Amount,
		quote.Currency,
		quote.TotalNodes,
		workflows,
		quote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}

	return nil
}

// GetByID retrieves a quote by id
func (r *QuoteRepository) GetByID(ctx context.Context, quoteID uuid.UUID) (*models.Quote, error) {
	query := `
		SELECT quote_id, session_id, amount, currency, total_nodes, workflows, created_at
		FROM quote
		WHERE quote_id = $1
	`

	quote, err := scanQuote(r.db.QueryRow(ctx, query, quoteID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	return quote, nil
}

// ListBySession retrieves the most recent quotes of a session, newest first
func (r *QuoteRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.Quote, error) {
	query := `
		SELECT quote_id, session_id, amount, currency, total_nodes, workflows, created_at
		FROM quote
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}

	return quotes, nil
}

func scanQuote(row pgx.Row) (*models.Quote, error) {
	quote := &models.Quote{}
	var workflows []byte

	err := row.Scan(
		&quote.QuoteID,
		&quote.SessionID,
		&quote.Amount,
		&quote.Currency,
		&quote.TotalNodes,
		&workflows,
		&quote.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(workflows, &quote.Workflows); err != nil {
		return nil, fmt.Errorf("failed to decode quote workflows: %w", err)
	}

	return quote, nil
}
