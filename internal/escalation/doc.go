// Package escalation classifies runtime failures by kind and severity,
// keeps a bounded error log with cumulative statistics, and dispatches the
// recovery action each severity calls for.
//
// Severities, ascending:
//
//	LOW       log + stats, transient notice
//	MEDIUM    log + stats, notice, source-specific recovery
//	HIGH      log + stats, degraded mode with doubled cadence, blocking notice
//	CRITICAL  log + stats, diagnostics bundle, process exit after a grace delay
//
// Every failure moves through the same steps: classified, logged, recorded,
// then dispatched on its severity.
package escalation
