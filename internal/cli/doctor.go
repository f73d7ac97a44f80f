package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/doctor"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/spf13/cobra"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd diagnoses config, state directories and metric sources
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config and metric sources",
	Long: `Run diagnostic checks to find out why a card shows defaults or why
sysdash won't start.

Checks:
  - Config file location and validity
  - Log and diagnostics directories are writable
  - Each metric source collects once
  - stdout is a terminal

Examples:
  sysdash doctor
  sysdash doctor --fix
  sysdash doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand(ctx context.Context, out io.Writer) error {
	// A broken config shouldn't stop the other checks; config_schema reports it.
	cfg, _, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		cfg = config.DefaultConfig()
		cfg.Errors.DiagnosticsDir = config.ExpandPath(cfg.Errors.DiagnosticsDir)
		cfg.Logging.File = config.ExpandPath(cfg.Logging.File)
	}

	checks := doctor.NewChecks(cfgFile, cfg, metrics.NewCollectors())
	results := doctor.RunAllParallel(ctx, checks)

	if doctorFix {
		results = doctor.Fix(ctx, checks, results)
	}

	if doctorJSON {
		if err := WriteJSONSuccess(out, buildDoctorOutput(checks, results)); err != nil {
			return err
		}
	} else {
		renderDoctorText(out, checks, results)
	}

	if doctor.HasFailures(results) {
		return errors.New(errors.ErrDiagnostics,
			"Doctor found problems",
			"Address the failed checks above, or run with --fix")
	}
	return nil
}

// buildDoctorOutput groups results by category in report order.
func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := make(map[string][]doctor.CheckResult)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], results[i])
	}

	output := DoctorOutput{}
	for _, cat := range doctor.Categories {
		if len(grouped[cat]) == 0 {
			continue
		}
		output.Categories = append(output.Categories, CategoryOutput{Name: cat, Results: grouped[cat]})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

// renderDoctorText writes the human-readable report.
func renderDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("sysdash Diagnostic Report"))
	fmt.Fprintln(w)

	var rows []ui.DoctorCheckRow
	for _, cat := range doctor.Categories {
		for i, check := range checks {
			if check.Category() != cat {
				continue
			}
			rows = append(rows, ui.DoctorCheckRow{
				Status:     results[i].Status.String(),
				Category:   cat,
				Message:    results[i].Message,
				Suggestion: results[i].Suggestion,
			})
		}
	}
	fmt.Fprint(w, ui.RenderDoctorTable(rows))

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
		if doctor.FixableCount(results) > 0 && !doctorFix {
			fmt.Fprintf(w, "\n  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	} else {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	}
	fmt.Fprintln(w)
}
