// Package cli implements the sysdash command-line interface.
//
// Each cobra command is a thin shell: it parses flags, loads config and
// hands off to the engine (internal/engine) and a render target, either
// the full-screen dashboard (internal/monitor) or plain output
// (internal/ui).
//
// # Command Structure
//
//	sysdash                  - Dashboard (same as monitor)
//	sysdash monitor          - Dashboard, --interval overrides refresh.interval
//	sysdash snapshot         - One sampled refresh as a table or --json
//	sysdash init             - Create the config file (huh form or --defaults)
//	sysdash config get|set   - Inspect or change settings
//	sysdash doctor           - Diagnose config, state dirs and sources
//	sysdash clean            - Prune diagnostics bundles
//	sysdash version          - Build information
//	sysdash completion       - Shell completion scripts
//
// # Flag Handling
//
// Global flags (--config, --no-color) are defined on the root command and
// available to all subcommands. NO_COLOR in the environment has the same
// effect as --no-color.
//
// # Output
//
// When stdout is not a terminal, monitor prints a single snapshot instead
// of starting the dashboard. Errors are printed to stderr in the
// structured "✗ message / cause / suggestion" form; with --json, snapshot
// also writes a JSONEnvelope error to stdout.
package cli
