package escalation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rileyhilliard/sysdash/internal/clean"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/shirou/gopsutil/v3/host"
)

// Bundle is the artifact persisted before a critical exit.
type Bundle struct {
	ID         string         `json:"id"`
	RunID      string         `json:"run_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	Reason     Record         `json:"reason"`
	ErrorLog   []Record       `json:"error_log"`
	Statistics Statistics     `json:"statistics"`
	Runtime    RuntimeInfo    `json:"runtime"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// RuntimeInfo is basic process and host information.
type RuntimeInfo struct {
	PID           int     `json:"pid"`
	GoVersion     string  `json:"go_version"`
	OS            string  `json:"os"`
	Arch          string  `json:"arch"`
	NumCPU        int     `json:"num_cpu"`
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	Hostname      string  `json:"hostname,omitempty"`
	Platform      string  `json:"platform,omitempty"`
	KernelVersion string  `json:"kernel_version,omitempty"`
	UptimeSec     uint64  `json:"uptime_sec,omitempty"`
}

// hostInfoTimeout bounds the host query so a wedged /proc can't delay exit.
const hostInfoTimeout = 500 * time.Millisecond

// CollectRuntimeInfo gathers process stats and, best effort, host details.
func CollectRuntimeInfo() RuntimeInfo {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	info := RuntimeInfo{
		PID:         os.Getpid(),
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(ms.HeapAlloc) / (1024 * 1024),
	}

	ctx, cancel := context.WithTimeout(context.Background(), hostInfoTimeout)
	defer cancel()
	if h, err := host.InfoWithContext(ctx); err == nil && h != nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform
		info.KernelVersion = h.KernelVersion
		info.UptimeSec = h.Uptime
	} else if name, err := os.Hostname(); err == nil {
		info.Hostname = name
	}

	return info
}

// NewBundleID returns a fresh bundle identifier.
func NewBundleID() string {
	return uuid.NewString()
}

// Diagnostics persists a bundle and returns where it went.
type Diagnostics interface {
	Write(b Bundle) (string, error)
}

// FileDiagnostics writes bundles as indented JSON files under Dir.
type FileDiagnostics struct {
	Dir  string
	Keep int // newest bundles kept after each write; 0 keeps all
}

// Write creates Dir if needed and writes sysdash-diagnostics-<timestamp>.json.
func (d FileDiagnostics) Write(b Bundle) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrDiagnostics,
			fmt.Sprintf("Couldn't create diagnostics directory %s", d.Dir),
			"Check errors.diagnostics_dir in your config points somewhere writable")
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrDiagnostics,
			"Couldn't encode diagnostics bundle", "")
	}

	name := fmt.Sprintf("sysdash-diagnostics-%s.json", b.CreatedAt.UTC().Format("20060102T150405.000Z"))
	path := filepath.Join(d.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrDiagnostics,
			fmt.Sprintf("Couldn't write diagnostics to %s", path),
			"Check errors.diagnostics_dir in your config points somewhere writable")
	}

	if d.Keep > 0 {
		// The bundle is already on disk; a failed prune leaves extras behind.
		_, _ = clean.Prune(d.Dir, clean.Policy{Keep: d.Keep}, b.CreatedAt)
	}

	return path, nil
}

// DiscardDiagnostics drops bundles. Used when no directory is configured.
type DiscardDiagnostics struct{}

// Write does nothing.
func (DiscardDiagnostics) Write(Bundle) (string, error) { return "", nil }
