package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flowDocument(n int) []byte {
	var b strings.Builder
	b.WriteString(`{"flow":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"id":%d,"module":"http"}`, i+1)
	}
	b.WriteString(`]}`)
	return []byte(b.String())
}

func nestedDocument(levels int) []byte {
	return []byte(strings.Repeat(`{"a":`, levels) + `1` + strings.Repeat(`}`, levels))
}

func TestGuard_ValidateFile_FileNames(t *testing.T) {
	t.Parallel()

	guard := NewGuard(DefaultLimits())

	tests := []struct {
		name     string
		fileName string
		wantErr  bool
	}{
		{name: "plain json", fileName: "workflow.json"},
		{name: "spaces and brackets", fileName: "My Zaps (export) 2024.json"},
		{name: "dashes and underscores", fileName: "make_blueprint-v2.json"},
		{name: "unicode letters", fileName: "größe.json"},
		{name: "empty", fileName: "", wantErr: true},
		{name: "leading dot", fileName: ".env", wantErr: true},
		{name: "traversal", fileName: "../../etc/passwd", wantErr: true},
		{name: "windows traversal", fileName: "..\\secrets.json", wantErr: true},
		{name: "directory separator", fileName: "dir/file.json", wantErr: true},
		{name: "encoded traversal", fileName: "%2e%2e%2fpasswd", wantErr: true},
		{name: "shell punctuation", fileName: "wf;rm -rf.json", wantErr: true},
		{name: "angle brackets", fileName: "<script>.json", wantErr: true},
		{name: "too long", fileName: strings.Repeat("a", 256) + ".json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := guard.ValidateFile(FileMeta{Name: tt.fileName, Size: 10})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsafeFileName)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGuard_ValidateFile_Size(t *testing.T) {
	guard := NewGuard(DefaultLimits())

	assert.NoError(t, guard.ValidateFile(FileMeta{Name: "ok.json", Size: 10 << 20}))

	err := guard.ValidateFile(FileMeta{Name: "big.json", Size: 10<<20 + 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, "big.json", fileErr.FileName)
	assert.Equal(t, "file_too_large", fileErr.Code())
}

func TestGuard_ValidateContent(t *testing.T) {
	t.Parallel()

	guard := NewGuard(Limits{MaxFileSize: 1 << 20, MaxNodeCount: 5, MaxDepth: 20})

	tests := []struct {
		name    string
		content []byte
		wantErr error
	}{
		{name: "valid object", content: []byte(`{"flow":[{"id":1}]}`)},
		{name: "not json", content: []byte(`{"flow": [`), wantErr: ErrMalformedInput},
		{name: "empty body", content: []byte(``), wantErr: ErrMalformedInput},
		{name: "top-level array", content: []byte(`[{"id":1}]`), wantErr: ErrInvalidStructure},
		{name: "top-level string", content: []byte(`"hello"`), wantErr: ErrInvalidStructure},
		{name: "null", content: []byte(`null`), wantErr: ErrInvalidStructure},
		{name: "exactly at node limit", content: flowDocument(5)},
		{name: "over node limit", content: flowDocument(6), wantErr: ErrNodeLimitExceeded},
		{name: "deepest allowed nesting", content: nestedDocument(21)},
		{name: "too deep", content: nestedDocument(22), wantErr: ErrStructureTooDeep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := guard.ValidateContent("test.json", tt.content)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsRejection(err))
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, doc)
		})
	}
}

func TestGuard_ValidateContent_ActualSize(t *testing.T) {
	guard := NewGuard(Limits{MaxFileSize: 16})

	_, err := guard.ValidateContent("big.json", []byte(`{"name":"this is longer than sixteen bytes"}`))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestGuard_NodeLimitBoundary(t *testing.T) {
	guard := NewGuard(DefaultLimits())

	_, err := guard.ValidateContent("limit.json", flowDocument(10000))
	assert.NoError(t, err, "exactly 10,000 nodes must be accepted")

	_, err = guard.ValidateContent("over.json", flowDocument(10001))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNodeLimitExceeded)
}

func TestNewGuard_DefaultsZeroLimits(t *testing.T) {
	guard := NewGuard(Limits{})
	assert.Equal(t, DefaultLimits(), guard.Limits())
}

func TestKindCode(t *testing.T) {
	assert.Equal(t, "malformed_input", KindCode(ErrMalformedInput))
	assert.Equal(t, "unknown_platform", KindCode(fmt.Errorf("wrap: %w", ErrUnknownPlatform)))
	assert.Equal(t, "internal_error", KindCode(fmt.Errorf("boom")))
	assert.False(t, IsRejection(ErrUnknownPlatform))
}
