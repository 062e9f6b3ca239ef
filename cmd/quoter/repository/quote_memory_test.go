package repository

import (
	"context"
	"testing"
	"time"

	"github.com/flowshift/quoter/common/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuote(sessionID string, createdAt time.Time) *models.Quote {
	return &models.Quote{
		QuoteID:    uuid.New(),
		SessionID:  sessionID,
		Amount:     20000,
		Currency:   "usd",
		TotalNodes: 3,
		Workflows: []models.Workflow{
			models.NewWorkflow(models.PlatformMake, "a.json", "a", 3, []models.Node{{Name: "n", Type: "t"}}, 20),
		},
		CreatedAt: createdAt,
	}
}

func TestMemoryQuoteRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryQuoteRepository()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := newQuote("s1", base)
	newer := newQuote("s1", base.Add(time.Minute))
	other := newQuote("s2", base)

	for _, q := range []*models.Quote{older, newer, other} {
		require.NoError(t, repo.Create(ctx, q))
	}

	got, err := repo.GetByID(ctx, older.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, older, got)

	got.Workflows[0].Nodes[0].Name = "changed"
	again, err := repo.GetByID(ctx, older.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, "n", again.Workflows[0].Nodes[0].Name)

	list, err := repo.ListBySession(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.QuoteID, list[0].QuoteID)

	list, err = repo.ListBySession(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrQuoteNotFound)
}
