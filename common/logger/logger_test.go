package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestLogger_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", "json", &buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	log.WithContext(ctx).WithSessionID("sess-1").WithFile("a.json").Info("processed", "nodes", 3)

	line := decodeLine(t, &buf)
	assert.Equal(t, "processed", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "sess-1", line["session_id"])
	assert.Equal(t, "a.json", line["file_name"])
	assert.Equal(t, float64(3), line["nodes"])
}

func TestLogger_ErrorAddsStack(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", "json", &buf)

	log.Error("boom", "error", "bad")

	line := decodeLine(t, &buf)
	assert.Contains(t, line["stack"], "goroutine")
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", "json", &buf)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.WithContext(context.Background()).Warn("shown")
	assert.NotZero(t, buf.Len())
}
