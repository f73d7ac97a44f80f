package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string    // Destination; empty means config.DefaultPath()
	Overwrite      bool      // Overwrite existing config without asking
	NonInteractive bool      // Skip prompts, write defaults
	Out            io.Writer // Where the result is reported
}

// initAnswers are the form values, kept as the strings the user typed.
type initAnswers struct {
	Interval          string
	WarningThreshold  string
	CriticalThreshold string
	LogLevel          string
	LogFile           string
}

func answersFrom(cfg *config.Config) initAnswers {
	return initAnswers{
		Interval:          cfg.Refresh.Interval.String(),
		WarningThreshold:  strconv.Itoa(cfg.Display.WarningThreshold),
		CriticalThreshold: strconv.Itoa(cfg.Display.CriticalThreshold),
		LogLevel:          cfg.Logging.Level,
		LogFile:           config.DefaultLogFile,
	}
}

// apply copies the answers onto cfg and validates the result.
func (a initAnswers) apply(cfg *config.Config) error {
	interval, err := time.ParseDuration(strings.TrimSpace(a.Interval))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", a.Interval),
			"Try something like 2s, 5s, or 1m.")
	}
	warning, err := strconv.Atoi(strings.TrimSpace(a.WarningThreshold))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Warning threshold must be a whole number", "Try 70")
	}
	critical, err := strconv.Atoi(strings.TrimSpace(a.CriticalThreshold))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Critical threshold must be a whole number", "Try 90")
	}

	cfg.Refresh.Interval = interval
	cfg.Display.WarningThreshold = warning
	cfg.Display.CriticalThreshold = critical
	cfg.Logging.Level = a.LogLevel
	cfg.Logging.File = strings.TrimSpace(a.LogFile)

	return config.Validate(cfg)
}

// Init writes a new config file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	configPath := opts.Path
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	configPath = config.ExpandTilde(configPath)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	answers := answersFrom(cfg)

	if !opts.NonInteractive {
		if err := runInitForm(&answers); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --defaults")
		}
	}

	if err := answers.apply(cfg); err != nil {
		return err
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  sysdash                    - Start the dashboard")
	fmt.Fprintln(out, "  sysdash snapshot           - Print metrics once")
	fmt.Fprintln(out, "  sysdash config set <k> <v> - Change a setting")

	return nil
}

func runInitForm(a *initAnswers) error {
	levels := make([]huh.Option[string], 0, len(config.ValidLogLevels))
	for _, l := range config.ValidLogLevels {
		levels = append(levels, huh.NewOption(l, l))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description("How often metrics are collected (minimum 500ms)").
				Placeholder("2s").
				Value(&a.Interval).
				Validate(func(s string) error {
					d, err := time.ParseDuration(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("use a duration like 2s or 500ms")
					}
					if d < config.MinInterval {
						return fmt.Errorf("minimum is %s", config.MinInterval)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Warning threshold (%)").
				Description("Usage at which values turn amber").
				Value(&a.WarningThreshold).
				Validate(validatePercent),
			huh.NewInput().
				Title("Critical threshold (%)").
				Description("Usage at which values turn red").
				Value(&a.CriticalThreshold).
				Validate(validatePercent),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(levels...).
				Value(&a.LogLevel),
			huh.NewInput().
				Title("Log file").
				Description("Leave empty to disable logging").
				Value(&a.LogFile),
		),
	)
	return form.Run()
}

func validatePercent(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 100 {
		return fmt.Errorf("enter a whole number between 1 and 100")
	}
	return nil
}
