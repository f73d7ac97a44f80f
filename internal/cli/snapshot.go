package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rileyhilliard/sysdash/internal/config"
	"github.com/rileyhilliard/sysdash/internal/engine"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/ui"
	"github.com/shirou/gopsutil/v3/host"
)

// defaultSample is the wait between the two snapshot samples.
const defaultSample = time.Second

const snapshotShutdownTimeout = 3 * time.Second

// snapshotOptions holds options for the snapshot command.
type snapshotOptions struct {
	JSON   bool
	Sample time.Duration
}

// SnapshotOutput is the --json payload.
type SnapshotOutput struct {
	Host     string          `json:"host,omitempty"`
	Snapshot engine.Snapshot `json:"snapshot"`
	Stats    engine.Stats    `json:"stats"`
}

// snapshotCommand loads config and prints one snapshot.
func snapshotCommand(ctx context.Context, out io.Writer, opts snapshotOptions) error {
	if err := validateSample(opts.Sample); err != nil {
		return err
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	return runSnapshot(ctx, out, cfg, opts)
}

// runSnapshot samples every source through a stopped engine and writes the
// result to out.
func runSnapshot(ctx context.Context, out io.Writer, cfg *config.Config, opts snapshotOptions) error {
	log, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	eng := engine.New(engine.FromConfig(cfg), engine.WithLogger(log))
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), snapshotShutdownTimeout)
		defer cancel()
		_ = eng.Shutdown(sctx)
	}()

	var spinner *ui.Spinner
	if !opts.JSON && isTerminal(os.Stderr) {
		spinner = ui.NewSpinner(os.Stderr, "Sampling metrics")
		spinner.Start()
	}

	snap := sample(ctx, eng, opts.Sample)

	if spinner != nil {
		if len(snap.Errors) > 0 {
			spinner.Fail()
		} else {
			spinner.Success()
		}
	}

	hostname := hostLabel(ctx)
	if opts.JSON {
		return WriteJSONSuccess(out, SnapshotOutput{
			Host:     hostname,
			Snapshot: snap,
			Stats:    eng.Stats(),
		})
	}

	ui.PrintHeader(out, ui.HeaderInfo{
		Version: formatVersion(version),
		Host:    hostname,
	})
	fmt.Fprint(out, ui.RenderSnapshotTable(SnapshotRows(snap), ui.Thresholds{
		Warning:  float64(cfg.Display.WarningThreshold),
		Critical: float64(cfg.Display.CriticalThreshold),
	}))
	return nil
}

// snapshotter is the part of the engine sample drives.
type snapshotter interface {
	RefreshOnce(ctx context.Context) engine.Snapshot
	ForceRefresh(ctx context.Context)
	Snapshot() engine.Snapshot
}

// sample runs one cycle, waits for the window, then forces a second cycle
// so rate-based readings have a baseline. A zero window or a cancelled ctx
// returns the first cycle.
func sample(ctx context.Context, eng snapshotter, window time.Duration) engine.Snapshot {
	first := eng.RefreshOnce(ctx)
	if window <= 0 {
		return first
	}

	timer := time.NewTimer(window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return first
	case <-timer.C:
	}

	eng.ForceRefresh(ctx)
	return eng.Snapshot()
}

// SnapshotRows converts a snapshot to table rows in display order.
func SnapshotRows(snap engine.Snapshot) []ui.SnapshotRow {
	rows := make([]ui.SnapshotRow, 0, len(metrics.AllSources))
	for _, src := range metrics.AllSources {
		r, ok := snap.Readings[src]
		if !ok {
			r = metrics.Default(src)
		}
		row := readingRow(r)
		row.Source = src.Label()
		row.Cached = snap.Cached[src]
		row.OK = !snap.Failed(src)
		if !row.OK {
			row.Detail = firstLine(snap.Errors[src])
		}
		rows = append(rows, row)
	}
	return rows
}

func readingRow(r metrics.Reading) ui.SnapshotRow {
	switch v := r.(type) {
	case metrics.CPUReading:
		detail := fmt.Sprintf("%d cores", len(v.PerCore))
		if v.Model != "" {
			detail += " · " + v.Model
		}
		return ui.SnapshotRow{Value: fmt.Sprintf("%.1f%%", v.Usage), Percent: v.Usage, Detail: detail}

	case metrics.MemoryReading:
		return ui.SnapshotRow{
			Value:   fmt.Sprintf("%.1f%%", v.UsagePercent),
			Percent: v.UsagePercent,
			Detail:  fmt.Sprintf("%.2f / %.2f GB", v.UsedGB, v.TotalGB),
		}

	case metrics.DiskReading:
		vol, ok := v.Primary()
		if !ok {
			return ui.SnapshotRow{Value: "-", Percent: -1, Detail: "no volumes"}
		}
		return ui.SnapshotRow{
			Value:   fmt.Sprintf("%.1f%%", vol.UsagePercent),
			Percent: vol.UsagePercent,
			Detail:  fmt.Sprintf("%s %.2f / %.2f GB", vol.Mount, vol.UsedGB, vol.SizeGB),
		}

	case metrics.NetworkReading:
		iface, ok := v.Active()
		if !ok {
			return ui.SnapshotRow{Value: "idle", Percent: -1, Detail: "no interfaces"}
		}
		return ui.SnapshotRow{
			Value:   iface.Name,
			Percent: -1,
			Detail:  fmt.Sprintf("↓ %.1f KB/s  ↑ %.1f KB/s", iface.RxKBps, iface.TxKBps),
		}
	}
	return ui.SnapshotRow{Value: "-", Percent: -1}
}

// hostLabel describes this machine for the header, e.g. "box · ubuntu 24.04".
func hostLabel(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		name, _ := os.Hostname()
		return name
	}
	label := info.Hostname
	if info.Platform != "" {
		label += " · " + strings.TrimSpace(info.Platform+" "+info.PlatformVersion)
	}
	return label
}

// firstLine returns the first non-empty line of a possibly multi-line error.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return strings.TrimPrefix(line, "✗ ")
		}
	}
	return s
}
