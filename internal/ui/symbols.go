package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Source collected
	SymbolFail    = "✗" // Source failed, default shown
	SymbolPending = "○" // Not yet collected
	SymbolCached  = "◐" // Served from cache
	SymbolDot     = "●" // Generic bullet
)
