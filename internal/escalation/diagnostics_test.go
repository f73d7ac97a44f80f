package escalation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	sderrors "github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDiagnostics_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state", "sysdash")
	created := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)

	e := NewEscalator(Config{RunID: "run-42"}, WithClock(func() time.Time { return created }))
	e.Handle(New(KindNetwork, SeverityMedium, "counters unavailable").WithSource("network"))

	bundle := e.Bundle(Record{Timestamp: created, Kind: KindSystem, Severity: SeverityCritical, Message: "fatal"})

	path, err := FileDiagnostics{Dir: dir}.Write(bundle)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "sysdash-diagnostics-20260504T030201"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-42", decoded["run_id"])
	assert.Equal(t, bundle.ID, decoded["id"])

	reason := decoded["reason"].(map[string]any)
	assert.Equal(t, "CRITICAL", reason["severity"])

	stats := decoded["statistics"].(map[string]any)
	counts := stats["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["NETWORK"].(map[string]any)["MEDIUM"])

	rt := decoded["runtime"].(map[string]any)
	assert.Equal(t, runtime.GOOS, rt["os"])
	assert.Equal(t, runtime.Version(), rt["go_version"])
}

func TestFileDiagnostics_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := FileDiagnostics{Dir: filepath.Join(blocker, "sub")}.Write(Bundle{CreatedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, sderrors.IsCode(err, sderrors.ErrDiagnostics))
}

func TestFileDiagnostics_KeepPrunes(t *testing.T) {
	dir := t.TempDir()
	d := FileDiagnostics{Dir: dir, Keep: 2}

	base := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	for i := range 4 {
		_, err := d.Write(Bundle{CreatedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "sysdash-diagnostics-*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestDiscardDiagnostics(t *testing.T) {
	path, err := DiscardDiagnostics{}.Write(Bundle{})
	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestCollectRuntimeInfo(t *testing.T) {
	info := CollectRuntimeInfo()
	assert.Equal(t, os.Getpid(), info.PID)
	assert.Equal(t, runtime.NumCPU(), info.NumCPU)
	assert.Positive(t, info.Goroutines)
}

func TestNewBundleID_Unique(t *testing.T) {
	assert.NotEqual(t, NewBundleID(), NewBundleID())
}
