package timekeeper_test

import (
	"testing"

	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/timekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkEvent(t *testing.T, typ matchlog.EventType, ts, seq int64, payload any) matchlog.Event {
	t.Helper()
	ev, err := matchlog.NewEvent(typ, ts, seq, 1, payload)
	require.NoError(t, err)
	return ev
}

func TestEffectivePlayingTime(t *testing.T) {
	clk := timekeeper.NewMock(999999)

	t.Run("no MATCH_START yields zero", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventGoalScored, 5000, 1, nil),
		}
		assert.Equal(t, int64(0), timekeeper.EffectivePlayingTime(events, clk))
		assert.Equal(t, int64(0), timekeeper.EffectivePlayingTime(nil, clk))
	})

	t.Run("start to end with no pauses", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 1000, 1, nil),
			mkEvent(t, matchlog.EventMatchEnd, 61000, 2, nil),
		}
		assert.Equal(t, int64(60000), timekeeper.EffectivePlayingTime(events, clk))
	})

	t.Run("a pause interval is deducted", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 1000, 1, nil),
			mkEvent(t, matchlog.EventTimerPaused, 31000, 2, nil),
			mkEvent(t, matchlog.EventTimerResumed, 46000, 3, nil),
			mkEvent(t, matchlog.EventMatchEnd, 76000, 4, nil),
		}
		assert.Equal(t, int64(60000), timekeeper.EffectivePlayingTime(events, clk))
	})

	t.Run("multiple pause intervals accumulate", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 1000, 1, nil),
			mkEvent(t, matchlog.EventTimerPaused, 16000, 2, nil),
			mkEvent(t, matchlog.EventTimerResumed, 26000, 3, nil),
			mkEvent(t, matchlog.EventTimerPaused, 51000, 4, nil),
			mkEvent(t, matchlog.EventTimerResumed, 61000, 5, nil),
			mkEvent(t, matchlog.EventMatchEnd, 86000, 6, nil),
		}
		assert.Equal(t, int64(65000), timekeeper.EffectivePlayingTime(events, clk))
	})

	t.Run("live match runs against the injected clock", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 1000, 1, nil),
		}
		live := timekeeper.NewMock(91000)
		assert.Equal(t, int64(90000), timekeeper.EffectivePlayingTime(events, live))
	})

	t.Run("open pause on a live match resumes implicitly at now", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 1000, 1, nil),
			mkEvent(t, matchlog.EventTimerPaused, 31000, 2, nil),
		}
		live := timekeeper.NewMock(91000)
		// 90s elapsed, 60s of it paused.
		assert.Equal(t, int64(30000), timekeeper.EffectivePlayingTime(events, live))
	})
}

func TestPlayerTimeTotals(t *testing.T) {
	clk := timekeeper.NewMock(999999)

	t.Run("substitution splits field time at the event timestamp", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 1000, 1, matchlog.MatchStartData{
				StartingFormation: map[string]string{"leftDefender": "p1"},
			}),
			mkEvent(t, matchlog.EventSubstitution, 31000, 2, matchlog.SubstitutionData{
				PlayersOff: []string{"p1"},
				PlayersOn:  []string{"p2"},
				NewRoles:   map[string]string{"p2": "defender"},
			}),
			mkEvent(t, matchlog.EventMatchEnd, 61000, 3, nil),
		}

		totals := timekeeper.PlayerTotals(events, clk)
		require.Contains(t, totals, "p1")
		require.Contains(t, totals, "p2")
		assert.Equal(t, int64(30000), totals["p1"].TimeOnField)
		assert.Equal(t, int64(30000), totals["p1"].TimeAsDefender)
		assert.Equal(t, int64(30000), totals["p2"].TimeOnField)
		assert.Equal(t, int64(30000), totals["p2"].TimeAsDefender)
	})

	t.Run("role totals sum to field time", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 0, 1, matchlog.MatchStartData{
				StartingFormation: map[string]string{
					"goalie":          "g1",
					"leftDefender":    "d1",
					"centerMidfielder": "m1",
					"striker":         "a1",
					"substitute_1":    "s1",
				},
			}),
			mkEvent(t, matchlog.EventPositionSwitch, 20000, 2, matchlog.PositionSwitchData{
				PlayerID:    "m1",
				NewPosition: "striker",
			}),
			mkEvent(t, matchlog.EventMatchEnd, 50000, 3, nil),
		}

		totals := timekeeper.PlayerTotals(events, clk)
		assert.NotContains(t, totals, "s1", "bench players accrue nothing")
		assert.Equal(t, int64(50000), totals["g1"].TimeAsGoalie)
		assert.Equal(t, int64(50000), totals["d1"].TimeAsDefender)

		m1 := totals["m1"]
		assert.Equal(t, int64(20000), m1.TimeAsMidfielder)
		assert.Equal(t, int64(30000), m1.TimeAsAttacker)
		assert.Equal(t, m1.TimeOnField, m1.TimeAsMidfielder+m1.TimeAsAttacker)
	})

	t.Run("goalie switch reassigns the goal", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 0, 1, matchlog.MatchStartData{
				StartingFormation: map[string]string{
					"goalie":       "g1",
					"leftDefender": "d1",
				},
			}),
			mkEvent(t, matchlog.EventGoalieSwitch, 30000, 2, matchlog.GoalieSwitchData{
				OldGoalie: "g1",
				NewGoalie: "d1",
			}),
			mkEvent(t, matchlog.EventMatchEnd, 40000, 3, nil),
		}

		totals := timekeeper.PlayerTotals(events, clk)
		assert.Equal(t, int64(30000), totals["g1"].TimeAsGoalie)
		assert.Equal(t, int64(30000), totals["g1"].TimeOnField)
		assert.Equal(t, int64(30000), totals["d1"].TimeAsDefender)
		assert.Equal(t, int64(10000), totals["d1"].TimeAsGoalie)
		assert.Equal(t, int64(40000), totals["d1"].TimeOnField)
	})

	t.Run("explicit playerRoles override the position table", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 0, 1, matchlog.MatchStartData{
				StartingFormation: map[string]string{"leftDefender": "p1"},
				PlayerRoles:       map[string]string{"p1": "midfielder"},
			}),
			mkEvent(t, matchlog.EventMatchEnd, 10000, 2, nil),
		}

		totals := timekeeper.PlayerTotals(events, clk)
		assert.Equal(t, int64(10000), totals["p1"].TimeAsMidfielder)
		assert.Equal(t, int64(0), totals["p1"].TimeAsDefender)
	})

	t.Run("live match closes open intervals at now", func(t *testing.T) {
		events := []matchlog.Event{
			mkEvent(t, matchlog.EventMatchStart, 0, 1, matchlog.MatchStartData{
				StartingFormation: map[string]string{"striker": "p1"},
			}),
		}
		live := timekeeper.NewMock(25000)
		totals := timekeeper.PlayerTotals(events, live)
		assert.Equal(t, int64(25000), totals["p1"].TimeAsAttacker)
	})

	t.Run("empty log yields an empty map", func(t *testing.T) {
		totals := timekeeper.PlayerTotals(nil, clk)
		assert.Empty(t, totals)
	})
}

func TestGoalTally(t *testing.T) {
	events := []matchlog.Event{
		mkEvent(t, matchlog.EventMatchStart, 0, 1, nil),
		mkEvent(t, matchlog.EventGoalScored, 1000, 2, nil),
		mkEvent(t, matchlog.EventGoalConceded, 2000, 3, nil),
		mkEvent(t, matchlog.EventGoalScored, 3000, 4, nil),
	}
	scored, conceded := timekeeper.GoalTally(events)
	assert.Equal(t, 2, scored)
	assert.Equal(t, 1, conceded)
}
