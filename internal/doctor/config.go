package doctor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/sysdash/internal/config"
)

// ConfigFileCheck reports which config file is in use.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Config file not accessible",
			Suggestion: firstLine(err.Error()) + "\nCheck the --config path or run 'sysdash init'",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file, using built-in defaults",
			Suggestion: "Run 'sysdash init' to create " + config.DefaultPath(),
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Config file: " + path,
	}
}

// Fix writes the defaults to the default location.
func (c *ConfigFileCheck) Fix() error {
	path := c.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Save(config.ExpandTilde(path), config.DefaultConfig())
}

// ConfigSchemaCheck loads the effective config, including SYSDASH_*
// overrides, and validates it.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(ctx context.Context) CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Failed to load config: " + firstLine(err.Error()),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Invalid setting: " + firstLine(err.Error()),
			Suggestion: "Fix it with 'sysdash config set <key> <value>'",
		}
	}

	return CheckResult{
		Name:   c.Name(),
		Status: StatusPass,
		Message: fmt.Sprintf("Settings valid (refresh every %s, cache ttl %s)",
			cfg.Refresh.Interval, cfg.Cache.TTL),
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Invalid values need a person to pick new ones
}
