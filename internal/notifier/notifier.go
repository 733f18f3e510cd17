package notifier

import (
	"github.com/mauv0809/touchline/internal/timekeeper"
)

// MatchSummary is everything a summary notification needs, precomputed by
// the finalizer so the notifier stays presentation-only.
type MatchSummary struct {
	MatchID         string
	TeamID          string
	Opponent        string
	EffectiveMillis int64
	GoalsScored     int
	GoalsConceded   int
	PlayerTotals    map[string]timekeeper.PlayerTimeTotals
	Recovered       bool
	WarningCount    int
}

// Notifier defines the interface for sending match notifications.
type Notifier interface {
	SendMatchSummary(summary MatchSummary, dryRun bool) error
	SendRecoveryNotice(matchID string, salvagedEvents int, dryRun bool) error
}
