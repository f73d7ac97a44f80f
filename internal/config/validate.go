package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sysdash/internal/errors"
)

// ValidLogLevels are the accepted logging.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats are the accepted logging.format values.
var ValidLogFormats = []string{"json", "text"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest sysdash release.")
	}

	if err := validateRefresh(cfg.Refresh); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'refresh' section in your config.")
	}

	if cfg.Cache.TTL <= 0 {
		return errors.New(errors.ErrConfig,
			"cache.ttl must be positive",
			"Use a duration like 2s.")
	}

	if err := validateErrors(cfg.Errors); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'errors' section in your config.")
	}

	if err := validateLogging(cfg.Logging); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'logging' section in your config.")
	}

	if err := validateDisplay(cfg.Display); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'display' section in your config.")
	}

	return nil
}

func validateRefresh(r RefreshConfig) error {
	if r.Interval < MinInterval {
		return fmt.Errorf("refresh.interval is %s, minimum is %s", r.Interval, MinInterval)
	}
	if r.CollectTimeout <= 0 {
		return fmt.Errorf("refresh.collect_timeout must be positive, got %s", r.CollectTimeout)
	}
	if r.SlowCycle < 0 {
		return fmt.Errorf("refresh.slow_cycle can't be negative, got %s", r.SlowCycle)
	}
	return nil
}

func validateErrors(e ErrorsConfig) error {
	if e.MaxLogSize < 1 {
		return fmt.Errorf("errors.max_log_size must be at least 1, got %d", e.MaxLogSize)
	}
	if e.ExitGrace < 0 {
		return fmt.Errorf("errors.exit_grace can't be negative, got %s", e.ExitGrace)
	}
	if strings.TrimSpace(e.DiagnosticsDir) == "" {
		return fmt.Errorf("errors.diagnostics_dir can't be empty")
	}
	if e.KeepDiagnostics < 0 {
		return fmt.Errorf("errors.keep_diagnostics can't be negative, got %d", e.KeepDiagnostics)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	if l.Level != "" && !contains(ValidLogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("logging.level %q isn't one of %s", l.Level, strings.Join(ValidLogLevels, ", "))
	}
	if l.Format != "" && !contains(ValidLogFormats, strings.ToLower(l.Format)) {
		return fmt.Errorf("logging.format %q isn't one of %s", l.Format, strings.Join(ValidLogFormats, ", "))
	}
	return nil
}

func validateDisplay(d DisplayConfig) error {
	if err := validateThresholds(d.WarningThreshold, d.CriticalThreshold); err != nil {
		return err
	}
	if d.HistorySize < 2 {
		return fmt.Errorf("display.history_size must be at least 2, got %d", d.HistorySize)
	}
	if d.NoticeDuration <= 0 {
		return fmt.Errorf("display.notice_duration must be positive, got %s", d.NoticeDuration)
	}
	return nil
}

// validateThresholds requires 0 < warning < critical <= 100.
func validateThresholds(warning, critical int) error {
	if warning <= 0 || warning > 100 {
		return fmt.Errorf("display.warning_threshold must be between 1 and 100, got %d", warning)
	}
	if critical <= 0 || critical > 100 {
		return fmt.Errorf("display.critical_threshold must be between 1 and 100, got %d", critical)
	}
	if warning >= critical {
		return fmt.Errorf("display.warning_threshold (%d) must be below display.critical_threshold (%d)", warning, critical)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
