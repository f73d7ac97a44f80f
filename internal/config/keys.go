package config

import (
	"fmt"
	"strings"
	"time"
)

// Key describes one config setting.
type Key struct {
	// Name is the dotted path, e.g. "refresh.interval".
	Name string
	// Value reads the setting from a Config in its file representation:
	// durations as strings, everything else as-is.
	Value func(c *Config) any
}

// Keys lists every setting in file order.
var Keys = []Key{
	{"version", func(c *Config) any { return c.Version }},
	{"refresh.interval", func(c *Config) any { return durationString(c.Refresh.Interval) }},
	{"refresh.collect_timeout", func(c *Config) any { return durationString(c.Refresh.CollectTimeout) }},
	{"refresh.slow_cycle", func(c *Config) any { return durationString(c.Refresh.SlowCycle) }},
	{"cache.ttl", func(c *Config) any { return durationString(c.Cache.TTL) }},
	{"errors.max_log_size", func(c *Config) any { return c.Errors.MaxLogSize }},
	{"errors.exit_grace", func(c *Config) any { return durationString(c.Errors.ExitGrace) }},
	{"errors.diagnostics_dir", func(c *Config) any { return c.Errors.DiagnosticsDir }},
	{"errors.keep_diagnostics", func(c *Config) any { return c.Errors.KeepDiagnostics }},
	{"logging.file", func(c *Config) any { return c.Logging.File }},
	{"logging.level", func(c *Config) any { return c.Logging.Level }},
	{"logging.format", func(c *Config) any { return c.Logging.Format }},
	{"display.warning_threshold", func(c *Config) any { return c.Display.WarningThreshold }},
	{"display.critical_threshold", func(c *Config) any { return c.Display.CriticalThreshold }},
	{"display.history_size", func(c *Config) any { return c.Display.HistorySize }},
	{"display.notice_duration", func(c *Config) any { return durationString(c.Display.NoticeDuration) }},
}

// LookupKey returns the key with the given dotted name.
func LookupKey(name string) (Key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range Keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// KeyNames returns every dotted key name.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// durationString formats d the way a person would type it ("2s", "1m30s").
func durationString(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	s := d.String()
	// time.Duration.String renders 2m as "2m0s"; trim the zero tails.
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

func splitKey(name string) (section, field string, err error) {
	parts := strings.Split(name, ".")
	switch len(parts) {
	case 1:
		return "", parts[0], nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("key %q is nested too deeply", name)
	}
}
