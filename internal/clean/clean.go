// Package clean prunes diagnostics bundles left behind by critical exits.
package clean

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
)

// BundlePattern matches the files escalation.FileDiagnostics writes.
const BundlePattern = "sysdash-diagnostics-*.json"

// Bundle is one diagnostics file on disk.
type Bundle struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// Policy decides which bundles are stale. Zero fields don't apply.
// Priority: MaxBytes > MaxAge > Keep
type Policy struct {
	Keep     int           // keep the newest N
	MaxAge   time.Duration // drop bundles older than this
	MaxBytes int64         // drop oldest until the total fits
}

// All marks every bundle stale.
var All = Policy{Keep: -1}

// Discover lists the bundles in dir, newest first. A missing dir has none.
func Discover(dir string) ([]Bundle, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, BundlePattern))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDiagnostics,
			"Can't list diagnostics in "+dir,
			"Check errors.diagnostics_dir in your config")
	}

	bundles := make([]Bundle, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue // Skip entries we can't stat
		}
		bundles = append(bundles, Bundle{
			Path:    path,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].ModTime.After(bundles[j].ModTime)
	})
	return bundles, nil
}

// Stale returns the bundles p would remove, oldest first. bundles must be
// newest first, as Discover returns them.
func Stale(bundles []Bundle, p Policy, now time.Time) []Bundle {
	if p.Keep < 0 {
		return reversed(bundles)
	}

	drop := make(map[string]bool)

	// Priority 1: MaxBytes
	if p.MaxBytes > 0 {
		var total int64
		for _, b := range bundles {
			total += b.Size
		}
		for i := len(bundles) - 1; i >= 0 && total > p.MaxBytes; i-- {
			drop[bundles[i].Path] = true
			total -= bundles[i].Size
		}
	}

	// Priority 2: MaxAge
	if p.MaxAge > 0 {
		cutoff := now.Add(-p.MaxAge)
		for _, b := range bundles {
			if b.ModTime.Before(cutoff) {
				drop[b.Path] = true
			}
		}
	}

	// Priority 3: Keep
	if p.Keep > 0 && len(bundles) > p.Keep {
		for _, b := range bundles[p.Keep:] {
			drop[b.Path] = true
		}
	}

	var stale []Bundle
	for i := len(bundles) - 1; i >= 0; i-- {
		if drop[bundles[i].Path] {
			stale = append(stale, bundles[i])
		}
	}
	return stale
}

// Remove deletes bundles and returns how many went. It stops at the first
// failure. Already-missing files count as removed.
func Remove(bundles []Bundle) (int, error) {
	for i, b := range bundles {
		if err := os.Remove(b.Path); err != nil && !os.IsNotExist(err) {
			return i, errors.WrapWithCode(err, errors.ErrDiagnostics,
				"Can't delete diagnostics bundle "+b.Path,
				"Check your permissions.")
		}
	}
	return len(bundles), nil
}

// Prune applies p to dir and returns what it removed.
func Prune(dir string, p Policy, now time.Time) ([]Bundle, error) {
	bundles, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	stale := Stale(bundles, p, now)
	n, err := Remove(stale)
	return stale[:n], err
}

// TotalSize sums the sizes of bundles.
func TotalSize(bundles []Bundle) int64 {
	var size int64
	for _, b := range bundles {
		size += b.Size
	}
	return size
}

func reversed(bundles []Bundle) []Bundle {
	out := make([]Bundle, len(bundles))
	for i, b := range bundles {
		out[len(bundles)-1-i] = b
	}
	return out
}
