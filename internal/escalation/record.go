package escalation

import "time"

// Record is one entry in the bounded error log.
type Record struct {
	Timestamp time.Time      `json:"timestamp"`
	Kind      Kind           `json:"kind"`
	Severity  Severity       `json:"severity"`
	Source    string         `json:"source,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// Statistics holds cumulative counts per (kind, severity) and the most
// recent record per kind. It only grows until explicitly cleared.
type Statistics struct {
	Counts map[Kind]map[Severity]int `json:"counts"`
	Last   map[Kind]Record           `json:"last"`
	Total  int                       `json:"total"`
}

func newStatistics() Statistics {
	return Statistics{
		Counts: make(map[Kind]map[Severity]int),
		Last:   make(map[Kind]Record),
	}
}

func (s *Statistics) add(r Record) {
	bySeverity, ok := s.Counts[r.Kind]
	if !ok {
		bySeverity = make(map[Severity]int)
		s.Counts[r.Kind] = bySeverity
	}
	bySeverity[r.Severity]++
	s.Last[r.Kind] = r
	s.Total++
}

// Count returns the cumulative count for one kind and severity.
func (s Statistics) Count(kind Kind, severity Severity) int {
	return s.Counts[kind][severity]
}

// CountKind returns the cumulative count for kind across all severities.
func (s Statistics) CountKind(kind Kind) int {
	n := 0
	for _, c := range s.Counts[kind] {
		n += c
	}
	return n
}

// clone returns a deep copy safe to hand to readers.
func (s Statistics) clone() Statistics {
	out := newStatistics()
	out.Total = s.Total
	for k, bySeverity := range s.Counts {
		m := make(map[Severity]int, len(bySeverity))
		for sev, n := range bySeverity {
			m[sev] = n
		}
		out.Counts[k] = m
	}
	for k, r := range s.Last {
		out.Last[k] = r
	}
	return out
}
