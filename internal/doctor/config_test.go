package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFileCheck(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("explicit file missing", func(t *testing.T) {
		check := &ConfigFileCheck{ConfigPath: filepath.Join(tmpDir, "nonexistent.yaml")}
		result := check.Run(context.Background())

		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Suggestion, "not found")
	})

	t.Run("config found", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("version: 1\n"), 0o644))

		result := (&ConfigFileCheck{ConfigPath: cfgPath}).Run(context.Background())
		assert.Equal(t, StatusPass, result.Status, result.Message)
		assert.Contains(t, result.Message, cfgPath)
	})

	t.Run("no config anywhere", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("HOME", t.TempDir())

		result := (&ConfigFileCheck{}).Run(context.Background())
		assert.Equal(t, StatusWarn, result.Status)
		assert.True(t, result.Fixable)
	})

	t.Run("name and category", func(t *testing.T) {
		check := &ConfigFileCheck{}
		assert.Equal(t, "config_file", check.Name())
		assert.Equal(t, CategoryConfig, check.Category())
	})
}

func TestConfigFileCheck_Fix(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "config.yaml")
	check := &ConfigFileCheck{ConfigPath: cfgPath}

	require.NoError(t, check.Fix())

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Refresh.Interval, cfg.Refresh.Interval)
	assert.Equal(t, StatusPass, check.Run(context.Background()).Status)
}

func TestConfigSchemaCheck(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, "valid.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("refresh:\n  interval: 5s\n"), 0o644))

		result := (&ConfigSchemaCheck{ConfigPath: cfgPath}).Run(context.Background())
		assert.Equal(t, StatusPass, result.Status, result.Message)
		assert.Contains(t, result.Message, "refresh every 5s")
	})

	t.Run("invalid value", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, "invalid.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("refresh:\n  interval: 100ms\n"), 0o644))

		result := (&ConfigSchemaCheck{ConfigPath: cfgPath}).Run(context.Background())
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Message, "refresh.interval")
	})

	t.Run("unparseable", func(t *testing.T) {
		cfgPath := filepath.Join(tmpDir, "broken.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("refresh: [\n"), 0o644))

		result := (&ConfigSchemaCheck{ConfigPath: cfgPath}).Run(context.Background())
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Message, "Failed to load config")
	})
}
