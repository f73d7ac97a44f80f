package escalation

import (
	"fmt"
	"strings"
)

// Kind is the failure category.
type Kind string

const (
	KindSystem      Kind = "SYSTEM"      // OS, permission, hardware
	KindNetwork     Kind = "NETWORK"     // connectivity
	KindData        Kind = "DATA"        // malformed or unparseable readings
	KindUI          Kind = "UI"          // presentation layer
	KindPerformance Kind = "PERFORMANCE" // resource pressure
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindSystem, KindNetwork, KindData, KindUI, KindPerformance}

// Severity orders failures by blast radius.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// Severities lists every severity in ascending order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// String returns the upper-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText renders the severity by name, so it reads well as a JSON
// value or map key.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	for _, candidate := range Severities {
		if strings.EqualFold(candidate.String(), string(b)) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(b))
}

// Failure is a classified error. It carries its own kind and severity, so
// an error that is already a *Failure keeps them when classified again.
type Failure struct {
	Kind     Kind
	Severity Severity
	Source   string // metric source or component; empty when unknown
	Message  string
	Details  map[string]any
	Cause    error
}

// New creates a failure with no underlying cause.
func New(kind Kind, severity Severity, message string) *Failure {
	return &Failure{Kind: kind, Severity: severity, Message: message}
}

// Wrap creates a failure around cause. The message defaults to the cause text.
func Wrap(cause error, kind Kind, severity Severity, message string) *Failure {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &Failure{Kind: kind, Severity: severity, Message: message, Cause: cause}
}

// WithSource sets the source and returns f.
func (f *Failure) WithSource(source string) *Failure {
	f.Source = source
	return f
}

// WithDetail adds a detail entry and returns f.
func (f *Failure) WithDetail(key string, value any) *Failure {
	if f.Details == nil {
		f.Details = make(map[string]any)
	}
	f.Details[key] = value
	return f
}

// Error implements the error interface.
func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s", f.Kind, f.Severity)
	if f.Source != "" {
		fmt.Fprintf(&b, " %s", f.Source)
	}
	fmt.Fprintf(&b, ": %s", f.Message)
	if f.Cause != nil && f.Cause.Error() != f.Message {
		fmt.Fprintf(&b, ": %v", f.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Cause
}

// Summary is the one-line text shown in notices.
func (f *Failure) Summary() string {
	if f.Source != "" {
		return fmt.Sprintf("[%s] %s: %s", f.Kind, f.Source, f.Message)
	}
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}
