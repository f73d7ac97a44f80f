package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	noColor bool
)

// rootCmd runs the dashboard when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sysdash",
	Short: "Resilient host-metrics dashboard",
	Long: `sysdash shows live CPU, memory, disk and network usage for this machine.

Collection failures never crash the dashboard: a failing source shows its
last good value or a default, errors are escalated by severity, and a
sustained problem slows the refresh cadence instead of hammering the OS.

Run without a subcommand to start the dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), cmd.OutOrStdout(), "")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/sysdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
		if isUnknownCommandError(err) {
			fmt.Fprintln(os.Stderr, "Run 'sysdash --help' for usage.")
		}
		os.Exit(1)
	}
}

// formatError makes sure plain errors get the same leading mark as
// structured ones.
func formatError(err error) string {
	msg := err.Error()
	if !strings.HasPrefix(msg, "✗") {
		msg = "✗ " + msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// loadConfig finds, loads and validates the config named by --config, or
// the defaults when no file exists.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
