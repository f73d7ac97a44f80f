package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete sysdash config file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	Refresh RefreshConfig `yaml:"refresh" mapstructure:"refresh"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Errors  ErrorsConfig  `yaml:"errors" mapstructure:"errors"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
}

// RefreshConfig controls the refresh cycle.
type RefreshConfig struct {
	// Interval is the base cadence between cycles. Minimum 500ms.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// CollectTimeout bounds each per-source OS query.
	CollectTimeout time.Duration `yaml:"collect_timeout" mapstructure:"collect_timeout"`

	// SlowCycle is the duration past which a cycle is reported as slow.
	// Zero means "same as Interval".
	SlowCycle time.Duration `yaml:"slow_cycle" mapstructure:"slow_cycle"`
}

// CacheConfig controls the per-source reading cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ErrorsConfig controls error escalation.
type ErrorsConfig struct {
	// MaxLogSize is the capacity of the in-memory error log.
	MaxLogSize int `yaml:"max_log_size" mapstructure:"max_log_size"`

	// ExitGrace is how long a critical failure waits before exiting.
	ExitGrace time.Duration `yaml:"exit_grace" mapstructure:"exit_grace"`

	// DiagnosticsDir is where diagnostics bundles are written.
	DiagnosticsDir string `yaml:"diagnostics_dir" mapstructure:"diagnostics_dir"`

	// KeepDiagnostics caps how many bundles stay on disk. 0 keeps all.
	KeepDiagnostics int `yaml:"keep_diagnostics" mapstructure:"keep_diagnostics"`
}

// LoggingConfig controls the structured log file.
type LoggingConfig struct {
	// File is the log path. Empty disables logging.
	File string `yaml:"file" mapstructure:"file"`

	// Level is debug, info, warn, or error.
	Level string `yaml:"level" mapstructure:"level"`

	// Format is json or text.
	Format string `yaml:"format" mapstructure:"format"`
}

// DisplayConfig controls the dashboard.
type DisplayConfig struct {
	// WarningThreshold is the usage percent at which values turn amber.
	WarningThreshold int `yaml:"warning_threshold" mapstructure:"warning_threshold"`

	// CriticalThreshold is the usage percent at which values turn red.
	CriticalThreshold int `yaml:"critical_threshold" mapstructure:"critical_threshold"`

	// HistorySize is how many samples each sparkline keeps.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	// NoticeDuration is how long transient notices stay on screen.
	NoticeDuration time.Duration `yaml:"notice_duration" mapstructure:"notice_duration"`
}

// Default paths, before ~ expansion.
const (
	DefaultStateDir = "~/.local/state/sysdash"
	DefaultLogFile  = DefaultStateDir + "/sysdash.log"
)

// MinInterval is the shortest allowed refresh interval.
const MinInterval = 500 * time.Millisecond

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Refresh: RefreshConfig{
			Interval:       2 * time.Second,
			CollectTimeout: 5 * time.Second,
			SlowCycle:      0,
		},
		Cache: CacheConfig{
			TTL: 2 * time.Second,
		},
		Errors: ErrorsConfig{
			MaxLogSize:      100,
			ExitGrace:       time.Second,
			DiagnosticsDir:  DefaultStateDir,
			KeepDiagnostics: 20,
		},
		Logging: LoggingConfig{
			File:   DefaultLogFile,
			Level:  "info",
			Format: "json",
		},
		Display: DisplayConfig{
			WarningThreshold:  70,
			CriticalThreshold: 90,
			HistorySize:       60,
			NoticeDuration:    4 * time.Second,
		},
	}
}

// SlowCycleThreshold returns the effective slow-cycle duration.
func (c *Config) SlowCycleThreshold() time.Duration {
	if c.Refresh.SlowCycle > 0 {
		return c.Refresh.SlowCycle
	}
	return c.Refresh.Interval
}
