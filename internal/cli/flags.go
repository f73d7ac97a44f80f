package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/errors"
)

// ParseInterval parses the --interval flag. Returns zero if the flag is
// empty, meaning the configured interval applies.
func ParseInterval(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	interval, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 5s, or 1m.")
	}
	if interval < config.MinInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			"Minimum interval is 500ms to avoid hammering the OS")
	}
	return interval, nil
}

// validateSample checks the --sample window.
func validateSample(d time.Duration) error {
	if d < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Sample window can't be negative (got %s)", d),
			"Use 0 to skip the second sample, or something like 1s.")
	}
	return nil
}
