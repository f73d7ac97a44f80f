// Package ui renders the plain, non-fullscreen terminal output of sysdash:
// the branded header, the sampling spinner and the one-shot snapshot table.
//
// The full-screen dashboard lives in internal/monitor; this package is for
// commands that print and exit.
//
// # Spinner
//
//	s := ui.NewSpinner(os.Stderr, "Sampling metrics")
//	s.Start()
//	// ... wait for the sample window ...
//	s.Success() // or s.Fail()
//
// Callers should only start a spinner when the output is a terminal.
//
// # Snapshot table
//
// RenderSnapshotTable prints one row per source with a status symbol,
// headline value, a RenderProgressBar usage bar and a detail column:
//
//	✓  CPU       42.5%     █████░░░░░░░  43%  8 cores
//	✗  Disk      0.0%                         disk: permission denied
//
// Bar colors follow Thresholds (green, yellow past Warning, red past Critical).
package ui
