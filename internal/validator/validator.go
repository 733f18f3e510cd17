// Package validator inspects a match event log for chronological, structural
// and uniqueness problems. Checks are independent and never short-circuit, so
// a log with several simultaneous defects reports all of them. Validation
// returns data, not errors: callers always get something to act on.
package validator

import (
	"fmt"
	"sort"

	"github.com/mauv0809/touchline/internal/matchlog"
)

// IssueType classifies a validation finding.
type IssueType string

const (
	IssueChronology         IssueType = "CHRONOLOGY"
	IssueDuplicateEvent     IssueType = "DUPLICATE_EVENT"
	IssueMissingData        IssueType = "MISSING_DATA"
	IssueCorruptedEvent     IssueType = "CORRUPTED_EVENT"
	IssueSequenceGap        IssueType = "SEQUENCE_GAP"
	IssuePlayerTimeMismatch IssueType = "PLAYER_TIME_MISMATCH"
)

// Severity separates defects recovery can repair from ones it cannot.
// Structural findings are warnings: they are exactly what the recovery
// engine rebuilds. Critical is reserved for data that yields no usable
// partial result at all.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Issue is a single typed validation finding.
type Issue struct {
	Type     IssueType `json:"type"`
	Severity Severity  `json:"severity"`
	Detail   string    `json:"detail"`
}

// Validate runs every structural check over the log and concatenates the
// findings. A clean log yields an empty slice.
func Validate(events []matchlog.Event) []Issue {
	var issues []Issue

	if !Chronological(events) {
		issues = append(issues, Issue{
			Type:     IssueChronology,
			Severity: SeverityWarning,
			Detail:   "event timestamps are not in chronological order",
		})
	}

	for _, id := range DuplicateIDs(events) {
		issues = append(issues, Issue{
			Type:     IssueDuplicateEvent,
			Severity: SeverityWarning,
			Detail:   fmt.Sprintf("event id %q appears more than once", id),
		})
	}

	if SequenceGaps(events) {
		issues = append(issues, Issue{
			Type:     IssueSequenceGap,
			Severity: SeverityWarning,
			Detail:   "sequence numbers do not form a contiguous run",
		})
	}

	for i, ev := range events {
		if ev.ID == "" {
			issues = append(issues, Issue{
				Type:     IssueMissingData,
				Severity: SeverityWarning,
				Detail:   fmt.Sprintf("event at index %d has no id", i),
			})
		}
		if !matchlog.KnownType(ev.Type) {
			issues = append(issues, Issue{
				Type:     IssueCorruptedEvent,
				Severity: SeverityWarning,
				Detail:   fmt.Sprintf("event at index %d has unknown type %q", i, ev.Type),
			})
		}
	}

	return issues
}

// Chronological reports whether timestamps are non-decreasing in array order.
// This deliberately checks the raw order, not a re-sort by sequence: an
// append-only log written correctly is already ordered. Empty and singleton
// logs are chronological.
func Chronological(events []matchlog.Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp < events[i-1].Timestamp {
			return false
		}
	}
	return true
}

// DuplicateIDs returns each event id that appears more than once, one entry
// per repeated id, in order of first repetition.
func DuplicateIDs(events []matchlog.Event) []string {
	seen := make(map[string]int, len(events))
	reported := make(map[string]bool)
	var dups []string
	for _, ev := range events {
		seen[ev.ID]++
		if seen[ev.ID] == 2 && !reported[ev.ID] {
			reported[ev.ID] = true
			dups = append(dups, ev.ID)
		}
	}
	return dups
}

// SequenceGaps reports whether the sorted sequence numbers have holes. Logs
// of length <= 1 never gap.
func SequenceGaps(events []matchlog.Event) bool {
	if len(events) <= 1 {
		return false
	}
	seqs := make([]int64, len(events))
	for i, ev := range events {
		seqs[i] = ev.Sequence
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	for i := 1; i < len(seqs); i++ {
		if seqs[i] != seqs[i-1]+1 {
			return true
		}
	}
	return false
}

// HasCritical reports whether any finding is critical.
func HasCritical(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
