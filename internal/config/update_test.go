package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Refresh.Interval = 1500 * time.Millisecond
	cfg.Cache.TTL = 2 * time.Minute
	cfg.Logging.File = ""
	cfg.Display.WarningThreshold = 50
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# sysdash configuration")
	assert.Contains(t, content, "interval: 1.5s")
	assert.Contains(t, content, "ttl: 2m")
	assert.Contains(t, content, `file: ""`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, loaded.Refresh.Interval)
	assert.Equal(t, 2*time.Minute, loaded.Cache.TTL)
	assert.Equal(t, "", loaded.Logging.File)
	assert.Equal(t, 50, loaded.Display.WarningThreshold)
	assert.NoError(t, Validate(loaded))
}

func TestSet_PreservesComments(t *testing.T) {
	path := writeConfig(t, `# my dashboard
refresh:
  # how often to poll
  interval: 2s
display:
  critical_threshold: 95
`)

	require.NoError(t, Set(path, "refresh.interval", "10s"))
	require.NoError(t, Set(path, "cache.ttl", "3s"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# my dashboard")
	assert.Contains(t, content, "# how often to poll")
	assert.Contains(t, content, "interval: 10s")
	assert.Contains(t, content, "critical_threshold: 95")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Refresh.Interval)
	assert.Equal(t, 3*time.Second, cfg.Cache.TTL)
}

func TestSet_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysdash", "config.yaml")

	require.NoError(t, Set(path, "logging.level", "debug"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSet_Rejects(t *testing.T) {
	original := "refresh:\n  interval: 2s\n"

	tests := []struct {
		name        string
		key         string
		value       string
		errContains string
	}{
		{"unknown key", "refresh.jitter", "1s", "Unknown config key"},
		{"invalid value", "refresh.interval", "100ms", "minimum is 500ms"},
		{"unparseable value", "cache.ttl", "whenever", "Invalid config format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, original)

			err := Set(path, tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.errContains)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, original, string(data), "file is untouched on error")
		})
	}
}

func TestLookupKey(t *testing.T) {
	k, ok := LookupKey(" Refresh.Interval ")
	require.True(t, ok)
	assert.Equal(t, "2s", k.Value(DefaultConfig()))

	_, ok = LookupKey("hosts")
	assert.False(t, ok)

	assert.Len(t, KeyNames(), len(Keys))
}

func TestDurationString(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "0s"},
		{500 * time.Millisecond, "500ms"},
		{2 * time.Second, "2s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m30s"},
		{time.Hour, "1h"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, durationString(tt.in))
		})
	}
}
