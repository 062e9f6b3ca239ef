package ingest

import (
	"context"
	"testing"

	"github.com/flowshift/quoter/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_ProcessBatch(t *testing.T) {
	p := NewProcessor(NewGuard(DefaultLimits()), 20, 2)

	files := []File{
		{Name: "make.json", Content: []byte(`{"flow":[{"id":1,"module":"http"}]}`)},
		{Name: "broken.json", Content: []byte(`{"flow":`)},
		{Name: "zaps.json", Content: []byte(twoZaps)},
		{Name: "unknown.json", Content: []byte(`{"foo":"bar"}`)},
		{Name: "../evil.json", Content: []byte(`{"flow":[]}`)},
		{Name: "n8n.json", Content: []byte(`{"nodes":[{"name":"Start","type":"trigger"}],"connections":{}}`)},
	}

	results, err := p.ProcessBatch(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, len(files))

	for i, f := range files {
		assert.Equal(t, f.Name, results[i].FileName, "results keep upload order")
	}

	assert.True(t, results[0].Accepted())
	require.NotNil(t, results[0].Workflow)
	assert.Equal(t, 1, results[0].Workflow.TotalNodes)

	assert.ErrorIs(t, results[1].Err, ErrMalformedInput)
	assert.False(t, results[1].Accepted())

	assert.Equal(t, models.PlatformZapier, results[2].Platform)
	assert.Nil(t, results[2].Workflow)
	assert.Len(t, results[2].Pending, 2)

	assert.Equal(t, models.PlatformUnknown, results[3].Platform)
	assert.NoError(t, results[3].Err)
	assert.ErrorIs(t, results[3].Warning, ErrUnknownPlatform)
	assert.Nil(t, results[3].Workflow)

	assert.ErrorIs(t, results[4].Err, ErrUnsafeFileName)

	require.NotNil(t, results[5].Workflow)
	assert.Equal(t, 20, results[5].Workflow.TotalPrice)
}

func TestProcessor_ProcessFile_DeclaredSizeTooLarge(t *testing.T) {
	p := NewProcessor(NewGuard(DefaultLimits()), 20, 1)

	result := p.ProcessFile(File{Name: "huge.json", Size: 11 << 20, Content: []byte(`{}`)})

	assert.ErrorIs(t, result.Err, ErrFileTooLarge)
}

func TestProcessor_ProcessBatch_Cancelled(t *testing.T) {
	p := NewProcessor(NewGuard(DefaultLimits()), 20, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessBatch(ctx, []File{{Name: "a.json", Content: []byte(`{}`)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessor_ProcessBatch_Empty(t *testing.T) {
	p := NewProcessor(NewGuard(DefaultLimits()), 20, 0)

	results, err := p.ProcessBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
