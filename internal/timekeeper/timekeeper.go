// Package timekeeper replays a match event log into derived time facts:
// effective match duration net of pauses, and per-player time totals by role.
// All arithmetic is in integer milliseconds; rounding is a presentation
// concern and does not happen here.
package timekeeper

import (
	"encoding/json"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/formation"
	"github.com/mauv0809/touchline/internal/matchlog"
)

func decodeData(ev matchlog.Event, v any) error {
	if len(ev.Data) == 0 {
		return errors.New("event has no payload")
	}
	return json.Unmarshal(ev.Data, v)
}

// PlayerTimeTotals is the derived per-player accumulation. It is never
// persisted as-is; the store keeps an independent seconds-level record that
// the validator cross-checks against these numbers.
type PlayerTimeTotals struct {
	TimeOnField      int64 `json:"timeOnField"`
	TimeAsDefender   int64 `json:"timeAsDefender"`
	TimeAsMidfielder int64 `json:"timeAsMidfielder"`
	TimeAsAttacker   int64 `json:"timeAsAttacker"`
	TimeAsGoalie     int64 `json:"timeAsGoalie"`
}

// EffectivePlayingTime computes how long the match has effectively run:
// elapsed time between MATCH_START and MATCH_END (or "now" for a live match)
// minus every paused interval. A log without MATCH_START yields 0.
func EffectivePlayingTime(events []matchlog.Event, clk Clock) int64 {
	var start *matchlog.Event
	for i := range events {
		if events[i].Type == matchlog.EventMatchStart {
			start = &events[i]
			break
		}
	}
	if start == nil {
		return 0
	}

	end := int64(0)
	var totalPaused int64
	pausedAt := int64(-1)
	for _, ev := range events {
		switch ev.Type {
		case matchlog.EventTimerPaused:
			if pausedAt < 0 {
				pausedAt = ev.Timestamp
			}
		case matchlog.EventTimerResumed:
			if pausedAt >= 0 {
				totalPaused += ev.Timestamp - pausedAt
				pausedAt = -1
			}
		case matchlog.EventMatchEnd:
			end = ev.Timestamp
		}
	}

	if end == 0 {
		end = clk.NowMillis()
	}
	if pausedAt >= 0 {
		// The log ended mid-pause; the end of the accounting window doubles
		// as the implicit resume point.
		totalPaused += end - pausedAt
	}

	effective := (end - start.Timestamp) - totalPaused
	if effective < 0 {
		return 0
	}
	return effective
}

// assignment tracks one player's open on-field interval.
type assignment struct {
	role    formation.Role
	hasRole bool
	since   int64
}

// PlayerTotals replays the log into cumulative per-player time by role.
// Players are seeded from the MATCH_START formation; every SUBSTITUTION,
// GOALIE_SWITCH and POSITION_SWITCH closes the outgoing interval and opens
// the incoming one. Open intervals are closed at MATCH_END, or at "now" for
// a live match.
func PlayerTotals(events []matchlog.Event, clk Clock) map[string]PlayerTimeTotals {
	totals := make(map[string]PlayerTimeTotals)
	onField := make(map[string]assignment)

	closeInterval := func(playerID string, at int64) {
		a, ok := onField[playerID]
		if !ok {
			return
		}
		delete(onField, playerID)
		elapsed := at - a.since
		if elapsed <= 0 {
			return
		}
		t := totals[playerID]
		t.TimeOnField += elapsed
		if a.hasRole {
			switch a.role {
			case formation.RoleDefender:
				t.TimeAsDefender += elapsed
			case formation.RoleMidfielder:
				t.TimeAsMidfielder += elapsed
			case formation.RoleAttacker:
				t.TimeAsAttacker += elapsed
			case formation.RoleGoalie:
				t.TimeAsGoalie += elapsed
			}
		}
		totals[playerID] = t
	}

	openInterval := func(playerID string, role formation.Role, hasRole bool, at int64) {
		onField[playerID] = assignment{role: role, hasRole: hasRole, since: at}
	}

	ended := false
	for _, ev := range events {
		if ended {
			break
		}
		switch ev.Type {
		case matchlog.EventMatchStart:
			startData, ok := ev.MatchStart()
			if !ok {
				log.Warn("Undecodable MATCH_START payload, skipping formation seed", "eventID", ev.ID)
				continue
			}
			for position, playerID := range startData.StartingFormation {
				if playerID == "" || formation.IsBenchPosition(position) {
					continue
				}
				if label, found := startData.PlayerRoles[playerID]; found {
					if role, resolved := formation.RoleFromLabel(label); resolved {
						openInterval(playerID, role, true, ev.Timestamp)
						continue
					}
				}
				role, resolved := formation.RoleForPosition(position)
				if !resolved {
					// Unknown position key: the player has no recognized
					// field slot and accrues nothing.
					continue
				}
				openInterval(playerID, role, true, ev.Timestamp)
			}

		case matchlog.EventSubstitution:
			sub, ok := ev.Substitution()
			if !ok {
				continue
			}
			for _, playerID := range sub.PlayersOff {
				closeInterval(playerID, ev.Timestamp)
			}
			for _, playerID := range sub.PlayersOn {
				role, hasRole := formation.Role(""), false
				if label, found := sub.NewRoles[playerID]; found {
					role, hasRole = formation.RoleFromLabel(label)
				}
				openInterval(playerID, role, hasRole, ev.Timestamp)
			}

		case matchlog.EventGoalieSwitch:
			gs, ok := ev.GoalieSwitch()
			if !ok {
				continue
			}
			closeInterval(gs.OldGoalie, ev.Timestamp)
			closeInterval(gs.NewGoalie, ev.Timestamp)
			openInterval(gs.NewGoalie, formation.RoleGoalie, true, ev.Timestamp)

		case matchlog.EventPositionSwitch:
			ps, ok := ev.PositionSwitch()
			if !ok {
				continue
			}
			closeInterval(ps.PlayerID, ev.Timestamp)
			if formation.IsBenchPosition(ps.NewPosition) {
				continue
			}
			role, hasRole := formation.RoleForPosition(ps.NewPosition)
			openInterval(ps.PlayerID, role, hasRole, ev.Timestamp)

		case matchlog.EventPlayerInactivated:
			// An inactivated player leaves the field immediately.
			var d struct {
				PlayerID string `json:"playerId"`
			}
			if err := decodeData(ev, &d); err == nil && d.PlayerID != "" {
				closeInterval(d.PlayerID, ev.Timestamp)
			}

		case matchlog.EventMatchEnd:
			for playerID := range onField {
				closeInterval(playerID, ev.Timestamp)
			}
			ended = true
		}
	}

	if !ended && len(onField) > 0 {
		now := clk.NowMillis()
		for playerID := range onField {
			closeInterval(playerID, now)
		}
	}

	return totals
}

// GoalTally counts goals for and against over the log.
func GoalTally(events []matchlog.Event) (scored, conceded int) {
	for _, ev := range events {
		switch ev.Type {
		case matchlog.EventGoalScored:
			scored++
		case matchlog.EventGoalConceded:
			conceded++
		}
	}
	return scored, conceded
}
