package finalizer

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/recovery"
	"github.com/mauv0809/touchline/internal/timekeeper"
	"github.com/mauv0809/touchline/internal/validator"
)

// New creates a new Finalizer.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, clock timekeeper.Clock) *Finalizer {
	return &Finalizer{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		clock:    clock,
	}
}

// Finalize closes out a match: the log is validated and repaired if needed,
// the derived times are computed and cross-checked against the persisted
// record, the record is rewritten from the replay, and the match is marked
// finalized before the summary goes out.
func (f *Finalizer) Finalize(matchID string, dryRun bool) (*Result, error) {
	startTime := time.Now()
	defer func() {
		f.metrics.ObserveFinalizeDuration(time.Since(startTime).Seconds())
	}()

	log.Info("Finalizing match", "matchID", matchID, "dryRun", dryRun)

	rec, err := f.store.GetMatch(matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if rec.Finalized {
		return nil, fmt.Errorf("match %s is already finalized", matchID)
	}

	events := rec.Events
	result := &Result{
		MatchID:  rec.MatchID,
		TeamID:   rec.TeamID,
		Opponent: rec.Opponent,
	}

	issues := validator.Validate(events)
	f.metrics.IncValidationIssues(len(issues))
	if len(issues) > 0 {
		log.Warn("Match log failed validation, rebuilding", "matchID", matchID, "issues", len(issues))
		events = recovery.RecoverEvents(events)
		result.Recovered = true
		result.SalvagedEvents = len(events)
		f.metrics.IncRecoveries()

		if !dryRun {
			if err := f.store.UpsertLog(rec.MatchID, rec.TeamID, rec.Opponent, events); err != nil {
				return nil, fmt.Errorf("failed to persist recovered log: %w", err)
			}
			if err := f.pubsub.SendMessage(pubsub.TopicLogRecovered, result); err != nil {
				log.Error("Failed to publish recovery message", "error", err, "matchID", matchID)
			}
		}
		if err := f.notifier.SendRecoveryNotice(matchID, len(events), dryRun); err != nil {
			log.Error("Failed to send recovery notice", "error", err, "matchID", matchID)
		}
	}

	f.metrics.IncReplays()
	result.EffectiveMillis = timekeeper.EffectivePlayingTime(events, f.clock)
	result.PlayerTotals = timekeeper.PlayerTotals(events, f.clock)
	result.GoalsScored, result.GoalsConceded = timekeeper.GoalTally(events)

	recorded, err := f.store.GetRecordedTime(matchID)
	if err != nil {
		log.Error("Failed to load recorded time", "error", err, "matchID", matchID)
	} else if len(recorded) > 0 {
		for _, issue := range validator.PlayerTimeConsistency(result.PlayerTotals, recorded) {
			result.Warnings = append(result.Warnings, issue.Detail)
		}
		if len(result.Warnings) > 0 {
			log.Warn("Recorded time diverges from replay", "matchID", matchID, "warnings", len(result.Warnings))
			f.metrics.IncValidationIssues(len(result.Warnings))
		}
	}

	if dryRun {
		log.Info("[Dry Run] Skipping persistence for finalize", "matchID", matchID)
	} else {
		// The replay is authoritative; the seconds record is rewritten from it.
		if err := f.store.SaveRecordedTime(matchID, toRecordedSeconds(result.PlayerTotals)); err != nil {
			return nil, fmt.Errorf("failed to save recorded time: %w", err)
		}
		if err := f.store.MarkFinalized(matchID); err != nil {
			return nil, fmt.Errorf("failed to mark match finalized: %w", err)
		}
		if err := f.pubsub.SendMessage(pubsub.TopicMatchFinalized, result); err != nil {
			log.Error("Failed to publish finalize message", "error", err, "matchID", matchID)
		}
	}

	summary := notifier.MatchSummary{
		MatchID:         result.MatchID,
		TeamID:          result.TeamID,
		Opponent:        result.Opponent,
		EffectiveMillis: result.EffectiveMillis,
		GoalsScored:     result.GoalsScored,
		GoalsConceded:   result.GoalsConceded,
		PlayerTotals:    result.PlayerTotals,
		Recovered:       result.Recovered,
		WarningCount:    len(result.Warnings),
	}
	if err := f.notifier.SendMatchSummary(summary, dryRun); err != nil {
		log.Error("Failed to send match summary", "error", err, "matchID", matchID)
	}

	log.Info("Match finalized", "matchID", matchID, "events", len(events), "recovered", result.Recovered)
	return result, nil
}

func toRecordedSeconds(totals map[string]timekeeper.PlayerTimeTotals) map[string]validator.RecordedSeconds {
	recorded := make(map[string]validator.RecordedSeconds, len(totals))
	for playerID, t := range totals {
		recorded[playerID] = validator.RecordedSeconds{
			OnField:    t.TimeOnField / 1000,
			Defender:   t.TimeAsDefender / 1000,
			Midfielder: t.TimeAsMidfielder / 1000,
			Attacker:   t.TimeAsAttacker / 1000,
			Goalie:     t.TimeAsGoalie / 1000,
		}
	}
	return recorded
}
