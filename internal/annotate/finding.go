// Package annotate holds the finding model and the annotation pipeline that
// orders, caps and emits findings extracted from report files.
package annotate

import (
	"fmt"
	"strings"
)

// Severity represents the level of a finding.
type Severity int

const (
	// SeverityError marks findings that should fail review.
	SeverityError Severity = iota
	// SeverityWarning marks findings that need attention but do not fail review.
	SeverityWarning
	// SeverityNotice marks informational findings.
	SeverityNotice
	// SeverityIgnore discards an item before a finding is produced. It is only
	// valid inside matcher level rules and never appears on a Finding.
	SeverityIgnore
)

// String returns the human-readable string representation of a Severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNotice:
		return "notice"
	case SeverityIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string identifier into a Severity value.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "notice":
		return SeverityNotice, nil
	case "ignore":
		return SeverityIgnore, nil
	default:
		return SeverityError, fmt.Errorf("unsupported severity %q", raw)
	}
}

// Finding is a single structured result extracted from a report item. Optional
// integer fields use zero for "unset"; StartLine is always at least 1 once a
// finding leaves the report parser.
type Finding struct {
	Severity    Severity
	Message     string
	Title       string
	File        string
	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int
}

// Tally counts the findings emitted during a run, per severity and in total.
type Tally struct {
	Errors   int
	Warnings int
	Notices  int
	Total    int
}

// SkippedSet holds, per severity, the findings that exceeded the per-type cap.
type SkippedSet struct {
	Errors   []Finding
	Warnings []Finding
	Notices  []Finding
}

// Total returns the number of skipped findings across all severities.
func (s SkippedSet) Total() int {
	return len(s.Errors) + len(s.Warnings) + len(s.Notices)
}
