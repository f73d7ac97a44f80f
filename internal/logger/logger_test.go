package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_JSONEventShape(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Level: "info", Format: "json"})

	l.Warn("collection failed", "source", "disk", "attempt", 2)

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))

	assert.Equal(t, "WARN", event["level"])
	assert.Equal(t, "collection failed", event["msg"])
	assert.NotEmpty(t, event["time"])

	meta, ok := event["metadata"].(map[string]any)
	require.True(t, ok, "metadata group should be present")
	assert.Equal(t, "disk", meta["source"])
	assert.Equal(t, float64(2), meta["attempt"])
}

func TestNewWriter_NoMetadataGroupWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Format: "json"})

	l.Info("engine started")

	assert.NotContains(t, buf.String(), "metadata")
}

func TestNewWriter_LevelFiltering(t *testing.T) {
	os.Unsetenv("SYSDASH_DEBUG")

	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Level: "warn"})

	l.Debug("hidden")
	l.Info("hidden too")
	l.Error("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNewWriter_DebugEnvOverride(t *testing.T) {
	t.Setenv("SYSDASH_DEBUG", "1")

	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Level: "error"})
	l.Debug("cache swept", "evicted", 3)

	assert.Contains(t, buf.String(), "cache swept")
}

func TestNewWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Format: "text"})
	l.Info("cycle complete", "cycle", 4)

	out := buf.String()
	assert.Contains(t, out, "msg=\"cycle complete\"")
	assert.Contains(t, out, "metadata.cycle=4")
}

func TestWith_PrependsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, Config{}).With("run_id", "abc")
	l.Info("tick", "cycle", 1)

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	meta := event["metadata"].(map[string]any)
	assert.Equal(t, "abc", meta["run_id"])
	assert.Equal(t, float64(1), meta["cycle"])
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sysdash.log")

	l, closer, err := New(Config{File: path})
	require.NoError(t, err)
	l.Error("critical failure", "kind", "SYSTEM")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "critical failure"))
}

func TestNew_EmptyFileIsNoop(t *testing.T) {
	l, closer, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, closer)

	assert.NotPanics(t, func() {
		l.Info("discarded")
		_ = closer.Close()
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		expect slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expect, ParseLevel(tt.in))
		})
	}
}

func TestNoop(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		l.With("k", "v").Info("x")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Info("first", "source", "cpu")
	l.With("run_id", "r1").Warn("second")

	msgs := l.Snapshot()
	require.Len(t, msgs, 2)
	assert.Equal(t, "info", msgs[0].Level)
	assert.Equal(t, "cpu", msgs[0].Fields["source"])
	assert.Equal(t, "r1", msgs[1].Fields["run_id"])

	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))
	assert.True(t, l.HasMessage("sec"))

	l.Clear()
	assert.Empty(t, l.Snapshot())
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	buf := NewBufferLogger()
	SetDefault(buf)
	Default().Info("via default")

	assert.True(t, buf.HasMessage("via default"))
}
