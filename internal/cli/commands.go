package cli

import (
	"os"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	monitorIntervalFlag string
	snapshotJSONFlag    bool
	snapshotSampleFlag  time.Duration
	initDefaultsFlag    bool
	initForceFlag       bool
)

// monitorCmd starts the TUI dashboard
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Real-time metrics dashboard",
	Long: `Start the interactive dashboard showing CPU, memory, disk and network
usage with sparklines, refreshed on a fixed cadence.

When stdout is not a terminal, a single snapshot is printed instead.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Force refresh (bypasses the cache)
  c           Clear cache
  s           Toggle engine stats
  e           Toggle error log
  D           Leave degraded mode
  Esc/Enter   Dismiss notice / close overlay
  ?           Show help

Examples:
  sysdash monitor
  sysdash monitor --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), cmd.OutOrStdout(), monitorIntervalFlag)
	},
}

// snapshotCmd runs one refresh and prints it
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print current metrics once",
	Long: `Collect every source once and print the result as a table or JSON.

CPU usage and network rates need two samples, so snapshot waits for the
sample window between them.

Examples:
  sysdash snapshot
  sysdash snapshot --json
  sysdash snapshot --sample 2s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := snapshotCommand(cmd.Context(), cmd.OutOrStdout(), snapshotOptions{
			JSON:   snapshotJSONFlag,
			Sample: snapshotSampleFlag,
		})
		if err != nil && snapshotJSONFlag {
			_ = WriteJSONFromError(cmd.OutOrStdout(), err)
		}
		return err
	},
}

// initCmd writes a new config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sysdash config file",
	Long: `Create a config file with interactive prompts.

The file is written to --config if given, otherwise to
$XDG_CONFIG_HOME/sysdash/config.yaml (or ~/.config/sysdash/config.yaml).

Examples:
  sysdash init
  sysdash init --defaults
  sysdash init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Path:           cfgFile,
			Overwrite:      initForceFlag,
			NonInteractive: initDefaultsFlag,
			Out:            cmd.OutOrStdout(),
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for sysdash.

Examples:
  # Bash
  sysdash completion bash > /etc/bash_completion.d/sysdash

  # Zsh
  sysdash completion zsh > "${fpath[1]}/_sysdash"

  # Fish
  sysdash completion fish > ~/.config/fish/completions/sysdash.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// monitor command flags
	monitorCmd.Flags().StringVar(&monitorIntervalFlag, "interval", "", "refresh interval, overrides refresh.interval (e.g., 2s, 5s)")

	// snapshot command flags
	snapshotCmd.Flags().BoolVar(&snapshotJSONFlag, "json", false, "output JSON")
	snapshotCmd.Flags().DurationVar(&snapshotSampleFlag, "sample", time.Second, "window between the two samples")

	// init command flags
	initCmd.Flags().BoolVar(&initDefaultsFlag, "defaults", false, "write the defaults without prompting")
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite existing config")

	// Register all commands
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
