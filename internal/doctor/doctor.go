// Package doctor runs diagnostic checks for 'sysdash doctor': config,
// writable state directories, each metric source, and the terminal.
package doctor

import (
	"path/filepath"

	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// NewChecks builds every check for cfg. configPath is the --config value.
func NewChecks(configPath string, cfg *config.Config, collectors []metrics.Collector) []Check {
	checks := []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}

	if cfg.Logging.File != "" {
		checks = append(checks, &WritableDirCheck{
			ID:    "log_dir",
			Label: "Log directory",
			Dir:   filepath.Dir(cfg.Logging.File),
		})
	}
	checks = append(checks, &WritableDirCheck{
		ID:    "diagnostics_dir",
		Label: "Diagnostics directory",
		Dir:   cfg.Errors.DiagnosticsDir,
	})

	for _, col := range collectors {
		checks = append(checks, &SourceCheck{Collector: col, Timeout: cfg.Refresh.CollectTimeout})
	}

	return append(checks, &TerminalCheck{})
}
