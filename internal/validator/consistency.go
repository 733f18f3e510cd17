package validator

import (
	"fmt"

	"github.com/mauv0809/touchline/internal/timekeeper"
)

// RecordedSeconds is the externally authoritative per-player record kept by
// the store. It is seconds-granular, unlike the millisecond replay output.
type RecordedSeconds struct {
	OnField    int64 `json:"secondsOnField"`
	Defender   int64 `json:"secondsAsDefender"`
	Midfielder int64 `json:"secondsAsMidfielder"`
	Attacker   int64 `json:"secondsAsAttacker"`
	Goalie     int64 `json:"secondsAsGoalie"`
}

// toleranceMillis absorbs seconds-level rounding between the two records.
const toleranceMillis = int64(1000)

// PlayerTimeConsistency cross-checks replay-computed totals (milliseconds)
// against the persisted per-player record (seconds). A nil map on one side
// with data on the other is inconsistent; two empty records are consistent.
func PlayerTimeConsistency(computed map[string]timekeeper.PlayerTimeTotals, recorded map[string]RecordedSeconds) []Issue {
	if computed == nil && recorded == nil {
		return nil
	}
	if computed == nil || recorded == nil {
		return []Issue{{
			Type:     IssuePlayerTimeMismatch,
			Severity: SeverityCritical,
			Detail:   "one side of the player time comparison is missing",
		}}
	}

	var issues []Issue
	checked := make(map[string]bool, len(computed))

	for playerID, totals := range computed {
		checked[playerID] = true
		rec := recorded[playerID] // zero record for unknown players
		issues = append(issues, comparePlayer(playerID, totals, rec)...)
	}
	for playerID, rec := range recorded {
		if checked[playerID] {
			continue
		}
		issues = append(issues, comparePlayer(playerID, timekeeper.PlayerTimeTotals{}, rec)...)
	}

	return issues
}

func comparePlayer(playerID string, totals timekeeper.PlayerTimeTotals, rec RecordedSeconds) []Issue {
	type field struct {
		name       string
		computedMs int64
		recordedS  int64
	}
	fields := []field{
		{"timeOnField", totals.TimeOnField, rec.OnField},
		{"timeAsDefender", totals.TimeAsDefender, rec.Defender},
		{"timeAsMidfielder", totals.TimeAsMidfielder, rec.Midfielder},
		{"timeAsAttacker", totals.TimeAsAttacker, rec.Attacker},
		{"timeAsGoalie", totals.TimeAsGoalie, rec.Goalie},
	}

	var issues []Issue
	for _, f := range fields {
		diff := f.computedMs - f.recordedS*1000
		if diff < 0 {
			diff = -diff
		}
		if diff > toleranceMillis {
			issues = append(issues, Issue{
				Type:     IssuePlayerTimeMismatch,
				Severity: SeverityWarning,
				Detail: fmt.Sprintf("player %s %s: computed %dms, recorded %ds",
					playerID, f.name, f.computedMs, f.recordedS),
			})
		}
	}
	return issues
}
