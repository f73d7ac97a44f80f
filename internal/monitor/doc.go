// Package monitor implements the sysdash terminal dashboard.
//
// The dashboard renders one card per metric source (CPU, memory, disk,
// network) with usage bars, threshold colors and sparklines, plus a header
// showing the engine cycle, cadence and degraded state.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: last snapshot, sparkline history, notices and overlays
//   - Update: keystrokes, snapshots and notices from the engine
//   - View: cards, or the open overlay centered on screen
//
// # Message Flow
//
// The engine owns the refresh cadence; the dashboard never ticks on its own.
//
//  1. Init starts the engine through the Controller
//  2. each cycle, the engine publishes to Bridge, which calls program.Send
//  3. snapshotMsg updates the cards and history; noticeMsg queues a notice
//  4. key actions call back into the Controller (refresh, clear cache, ...)
//
// Transient notices expire after Options.NoticeDuration. Blocking notices
// (HIGH and CRITICAL) stay until dismissed with esc or enter, and swallow
// every key except quit and dismiss.
package monitor
