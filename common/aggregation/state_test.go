package aggregation

import (
	"testing"

	"github.com/flowshift/quoter/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workflow(platform models.Platform, fileName string, nodes int) models.Workflow {
	return models.NewWorkflow(platform, fileName, fileName, nodes, nil, models.DefaultPricePerNode)
}

func pendingZaps() []models.PendingZapierWorkflow {
	return pendingZapsFrom("zaps.json")
}

func pendingZapsFrom(fileName string) []models.PendingZapierWorkflow {
	return []models.PendingZapierWorkflow{
		{ID: "a", Title: "Zap A", Status: models.ZapStatusOn, NodeCount: 2, Price: 40, FileName: fileName},
		{ID: "b", Title: "Zap B", Status: models.ZapStatusOff, NodeCount: 1, Price: 20, FileName: fileName},
	}
}

func TestState_ZeroSummary(t *testing.T) {
	s := New()

	summary := s.Summary(DefaultRules())

	assert.Equal(t, 0, summary.TotalNodes)
	assert.Equal(t, 0, summary.TotalPrice)
	assert.Equal(t, 0, summary.TotalWorkflows)
	assert.Equal(t, 0, summary.QuotedPrice, "an empty selection is never floored")
	assert.Equal(t, 20, summary.PricePerNode)
	assert.Equal(t, map[models.Platform]int{
		models.PlatformMake:   0,
		models.PlatformZapier: 0,
		models.PlatformN8n:    0,
	}, summary.CountsByPlatform)
}

func TestState_Summary(t *testing.T) {
	s := New()
	s.Add(
		workflow(models.PlatformMake, "a.json", 3),
		workflow(models.PlatformN8n, "b.json", 10),
		workflow(models.PlatformMake, "c.json", 2),
	)

	summary := s.Summary(DefaultRules())

	assert.Equal(t, 15, summary.TotalNodes)
	assert.Equal(t, 300, summary.TotalPrice)
	assert.Equal(t, 3, summary.TotalWorkflows)
	assert.Equal(t, 300, summary.QuotedPrice)
	assert.Equal(t, 2, summary.CountsByPlatform[models.PlatformMake])
	assert.Equal(t, 1, summary.CountsByPlatform[models.PlatformN8n])
	assert.Equal(t, 0, summary.CountsByPlatform[models.PlatformZapier])
}

func TestState_RemoveByFileName(t *testing.T) {
	s := New()
	s.Add(
		workflow(models.PlatformMake, "shared.json", 3),
		workflow(models.PlatformN8n, "other.json", 1),
	)
	s.AddPending("shared.json", pendingZapsFrom("shared.json"))
	_, err := s.SelectZaps([]string{"a"}, 20)
	require.NoError(t, err)

	removed := s.RemoveByFileName("shared.json")

	assert.Equal(t, 2, removed, "the make workflow and the confirmed zap")
	for _, wf := range s.Workflows {
		assert.NotEqual(t, "shared.json", wf.FileName)
	}
	assert.Empty(t, s.PendingFor("shared.json"))

	summary := s.Summary(DefaultRules())
	assert.Equal(t, 1, summary.TotalNodes)
	assert.Equal(t, 20, summary.TotalPrice)
}

func TestState_RemoveByFileName_Missing(t *testing.T) {
	s := New()
	s.Add(workflow(models.PlatformMake, "a.json", 3))

	assert.Equal(t, 0, s.RemoveByFileName("nope.json"))
	assert.Len(t, s.Workflows, 1)
}

func TestState_ClearPlatform(t *testing.T) {
	s := New()
	s.Add(
		workflow(models.PlatformMake, "a.json", 3),
		workflow(models.PlatformN8n, "b.json", 4),
		workflow(models.PlatformMake, "c.json", 5),
	)

	removed := s.ClearPlatform(models.PlatformMake)

	assert.Equal(t, 2, removed)
	require.Len(t, s.Workflows, 1)
	assert.Equal(t, models.PlatformN8n, s.Workflows[0].Platform)
	assert.Equal(t, 4, s.Workflows[0].TotalNodes)
}

func TestState_SelectZaps(t *testing.T) {
	s := New()
	s.AddPending("zaps.json", pendingZaps())

	selected, err := s.SelectZaps([]string{"a"}, 20)
	require.NoError(t, err)
	require.Len(t, selected, 1)

	summary := s.Summary(DefaultRules())
	assert.Equal(t, 2, summary.TotalNodes)
	assert.Equal(t, 40, summary.TotalPrice)
	assert.Equal(t, 200, summary.QuotedPrice, "minimum price floor applies")
	assert.Len(t, s.PendingFor(""), 2, "pending zaps stay available for reselection")
}

func TestState_SelectZaps_ReplacesPreviousSelection(t *testing.T) {
	s := New()
	s.Add(workflow(models.PlatformMake, "make.json", 1))
	s.AddPending("zaps.json", pendingZaps())

	_, err := s.SelectZaps([]string{"a", "b"}, 20)
	require.NoError(t, err)
	_, err = s.SelectZaps([]string{"b"}, 20)
	require.NoError(t, err)

	groups := s.ByPlatform()
	require.Len(t, groups[models.PlatformZapier], 1)
	assert.Equal(t, "Zap B", groups[models.PlatformZapier][0].WorkflowName)
	assert.Len(t, groups[models.PlatformMake], 1, "other platforms are untouched")

	_, err = s.SelectZaps(nil, 20)
	require.NoError(t, err)
	assert.Empty(t, s.ByPlatform()[models.PlatformZapier])
}

func TestState_SelectZaps_UnknownID(t *testing.T) {
	s := New()
	s.AddPending("zaps.json", pendingZaps())
	_, err := s.SelectZaps([]string{"a"}, 20)
	require.NoError(t, err)

	_, err = s.SelectZaps([]string{"a", "zzz"}, 20)

	assert.ErrorIs(t, err, ErrUnknownZap)
	assert.Len(t, s.ByPlatform()[models.PlatformZapier], 1, "a failed selection changes nothing")
}

func TestState_AddPending_ReplacesSameFile(t *testing.T) {
	s := New()
	s.AddPending("zaps.json", pendingZaps())
	s.AddPending("other.json", []models.PendingZapierWorkflow{{ID: "c", FileName: "other.json"}})
	s.AddPending("zaps.json", pendingZaps()[:1])

	assert.Len(t, s.PendingFor("zaps.json"), 1)
	assert.Len(t, s.PendingFor("other.json"), 1)
	assert.Len(t, s.PendingFor(""), 2)
}

func TestState_Add_CopiesNodes(t *testing.T) {
	nodes := []models.Node{{Name: "a", Type: "t"}}
	wf := models.NewWorkflow(models.PlatformN8n, "a.json", "a", 1, nodes, 20)

	s := New()
	s.Add(wf)
	nodes[0].Name = "mutated"

	assert.Equal(t, "a", s.Workflows[0].Nodes[0].Name)
}

func TestState_Reset(t *testing.T) {
	s := New()
	s.Add(workflow(models.PlatformMake, "a.json", 3))
	s.AddPending("zaps.json", pendingZaps())

	s.Reset()

	assert.Empty(t, s.Workflows)
	assert.Empty(t, s.Pending)
	assert.Equal(t, 0, s.Summary(DefaultRules()).TotalNodes)
}

func TestQuotedPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		totalPrice, nodes    int
		minimumPrice, expect int
	}{
		{name: "empty selection", totalPrice: 0, nodes: 0, minimumPrice: 200, expect: 0},
		{name: "below floor", totalPrice: 60, nodes: 3, minimumPrice: 200, expect: 200},
		{name: "at floor", totalPrice: 200, nodes: 10, minimumPrice: 200, expect: 200},
		{name: "above floor", totalPrice: 1000, nodes: 50, minimumPrice: 200, expect: 1000},
		{name: "floor disabled", totalPrice: 60, nodes: 3, minimumPrice: 0, expect: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, QuotedPrice(tt.totalPrice, tt.nodes, tt.minimumPrice))
		})
	}
}

func TestState_Checkout(t *testing.T) {
	s := New()
	s.Add(
		workflow(models.PlatformMake, "a.json", 10),
		workflow(models.PlatformN8n, "b.json", 5),
	)

	payload := s.Checkout(DefaultRules())

	assert.Equal(t, int64(30000), payload.Amount, "300 in cents")
	assert.Equal(t, "usd", payload.Currency)
	assert.Equal(t, 15, payload.TotalNodes)
	assert.Len(t, payload.Workflows, 2)
}
