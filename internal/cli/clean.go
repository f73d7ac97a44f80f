package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/sysdash/internal/clean"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/spf13/cobra"
)

// CleanOptions holds options for the clean command.
type CleanOptions struct {
	All       bool          // Remove every bundle
	Keep      int           // Keep the newest N (-1 uses errors.keep_diagnostics)
	OlderThan time.Duration // Also remove bundles older than this
	DryRun    bool          // Show what would be removed without deleting
	Yes       bool          // Skip the confirmation prompt
}

var cleanOpts = CleanOptions{Keep: -1}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove old diagnostics bundles",
	Long: `Remove diagnostics bundles written by critical failures.

By default keeps the newest errors.keep_diagnostics bundles. Use --keep or
--older-than to pick a different policy, or --all to remove everything.

Examples:
  sysdash clean --dry-run
  sysdash clean --keep 5
  sysdash clean --older-than 168h --yes
  sysdash clean --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cleanCommand(cmd.OutOrStdout(), cleanOpts, time.Now())
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanOpts.All, "all", false, "remove every bundle")
	cleanCmd.Flags().IntVar(&cleanOpts.Keep, "keep", -1, "keep the newest N bundles (default errors.keep_diagnostics)")
	cleanCmd.Flags().DurationVar(&cleanOpts.OlderThan, "older-than", 0, "remove bundles older than this duration")
	cleanCmd.Flags().BoolVar(&cleanOpts.DryRun, "dry-run", false, "show what would be removed")
	cleanCmd.Flags().BoolVarP(&cleanOpts.Yes, "yes", "y", false, "don't ask for confirmation")
	rootCmd.AddCommand(cleanCmd)
}

// cleanCommand lists stale bundles under errors.diagnostics_dir and removes them.
func cleanCommand(out io.Writer, opts CleanOptions, now time.Time) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	policy, err := cleanPolicy(opts, cfg.Errors.KeepDiagnostics)
	if err != nil {
		return err
	}

	dir := cfg.Errors.DiagnosticsDir
	bundles, err := clean.Discover(dir)
	if err != nil {
		return err
	}
	stale := clean.Stale(bundles, policy, now)

	if len(stale) == 0 {
		fmt.Fprintf(out, "%s No diagnostics bundles to clean in %s\n", ui.SymbolSuccess, dir)
		return nil
	}

	dimStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	fmt.Fprintln(out)
	for _, b := range stale {
		fmt.Fprintf(out, "  %s  %s\n", b.Path,
			dimStyle.Render(fmt.Sprintf("%s, %s", humanize.RelTime(b.ModTime, now, "ago", "from now"),
				humanize.Bytes(uint64(b.Size)))))
	}
	fmt.Fprintln(out)

	summary := fmt.Sprintf("%d bundle%s (%s)", len(stale), pluralize(len(stale)),
		humanize.Bytes(uint64(clean.TotalSize(stale))))

	if opts.DryRun {
		fmt.Fprintf(out, "%s Dry run: would remove %s\n", ui.SymbolPending, summary)
		return nil
	}

	if !opts.Yes {
		if !isTerminal(out) {
			return errors.New(errors.ErrDiagnostics,
				"Refusing to delete without confirmation",
				"Re-run with --yes when not attached to a terminal")
		}
		var confirm bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Remove %s?", summary)).
					Description("This cannot be undone").
					Value(&confirm),
			),
		)
		if err := form.Run(); err != nil {
			return nil
		}
		if !confirm {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	removed, err := clean.Remove(stale)
	if removed > 0 {
		fmt.Fprintf(out, "%s Removed %d bundle%s\n", ui.SymbolSuccess, removed, pluralize(removed))
	}
	return err
}

// cleanPolicy maps flags onto a retention policy. keepDefault comes from
// errors.keep_diagnostics.
func cleanPolicy(opts CleanOptions, keepDefault int) (clean.Policy, error) {
	if opts.All {
		return clean.All, nil
	}
	if opts.OlderThan < 0 {
		return clean.Policy{}, errors.New(errors.ErrConfig,
			"--older-than can't be negative",
			"Use a duration like 24h or 168h")
	}

	keep := opts.Keep
	if keep < 0 {
		keep = keepDefault
		// An explicit age without --keep shouldn't also apply the count cap.
		if opts.OlderThan > 0 {
			keep = 0
		}
	}
	return clean.Policy{Keep: keep, MaxAge: opts.OlderThan}, nil
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
