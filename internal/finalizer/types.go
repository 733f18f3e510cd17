package finalizer

import (
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/timekeeper"
)

// Finalizer handles the business logic of closing out a match log.
type Finalizer struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	clock    timekeeper.Clock
}

// Result is what Finalize hands back to its caller, mirroring what was
// published and notified.
type Result struct {
	MatchID         string                                 `json:"matchId"`
	TeamID          string                                 `json:"teamId"`
	Opponent        string                                 `json:"opponent,omitempty"`
	EffectiveMillis int64                                  `json:"effectivePlayingTime"`
	GoalsScored     int                                    `json:"goalsScored"`
	GoalsConceded   int                                    `json:"goalsConceded"`
	PlayerTotals    map[string]timekeeper.PlayerTimeTotals `json:"playerTotals"`
	Recovered       bool                                   `json:"recovered"`
	SalvagedEvents  int                                    `json:"salvagedEvents,omitempty"`
	Warnings        []string                               `json:"warnings,omitempty"`
}
