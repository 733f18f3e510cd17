package recovery_test

import (
	"encoding/json"
	"testing"

	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/recovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ev(id string, typ matchlog.EventType, ts, seq int64) matchlog.Event {
	return matchlog.Event{ID: id, Type: typ, Timestamp: ts, Sequence: seq}
}

func TestRecoverEvents(t *testing.T) {
	t.Run("filters, dedupes, sorts and resequences", func(t *testing.T) {
		events := []matchlog.Event{
			ev("c", matchlog.EventMatchEnd, 3000, 9),
			ev("a", matchlog.EventMatchStart, 1000, 4),
			ev("x", "BOGUS_TYPE", 1500, 5),
			ev("a", matchlog.EventMatchStart, 1000, 6), // duplicate id
			ev("b", matchlog.EventGoalScored, 2000, 7),
		}

		out := recovery.RecoverEvents(events)
		require.Len(t, out, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
		for i, e := range out {
			assert.Equal(t, int64(i+1), e.Sequence)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		events := []matchlog.Event{
			ev("b", matchlog.EventGoalScored, 2000, 42),
			ev("a", matchlog.EventMatchStart, 1000, 17),
		}
		once := recovery.RecoverEvents(events)
		twice := recovery.RecoverEvents(once)
		assert.Equal(t, once, twice)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, recovery.RecoverEvents(nil))
	})
}

func TestRecoverRaw(t *testing.T) {
	t.Run("non-array input yields empty log", func(t *testing.T) {
		assert.Empty(t, recovery.RecoverRaw(json.RawMessage(`"not an array"`)))
		assert.Empty(t, recovery.RecoverRaw(json.RawMessage(`42`)))
		assert.Empty(t, recovery.RecoverRaw(nil))
	})

	t.Run("null and non-object entries are dropped", func(t *testing.T) {
		raw := json.RawMessage(`[
			null,
			"junk",
			17,
			{"id":"b","type":"GOAL_SCORED","timestamp":2000,"sequence":8},
			{"id":"a","type":"MATCH_START","timestamp":1000,"sequence":3},
			{"id":"z","type":"NOT_AN_EVENT","timestamp":1500,"sequence":4}
		]`)
		out := recovery.RecoverRaw(raw)
		require.Len(t, out, 2)
		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, int64(1), out[0].Sequence)
		assert.Equal(t, "b", out[1].ID)
		assert.Equal(t, int64(2), out[1].Sequence)
	})
}

func TestValidateAndRestore(t *testing.T) {
	t.Run("invalid JSON yields nil", func(t *testing.T) {
		assert.Nil(t, recovery.ValidateAndRestore([]byte(`{not json`)))
		assert.Nil(t, recovery.ValidateAndRestore(nil))
	})

	t.Run("clean blob round-trips unchanged", func(t *testing.T) {
		raw := []byte(`{"events":[
			{"id":"a","type":"MATCH_START","timestamp":1000,"sequence":1},
			{"id":"b","type":"MATCH_END","timestamp":2000,"sequence":2}
		],"matchId":"m1","teamId":"t1"}`)

		snap := recovery.ValidateAndRestore(raw)
		require.NotNil(t, snap)
		assert.False(t, snap.Recovered)
		require.Len(t, snap.Events, 2)

		// Extra caller fields survive a marshal round-trip.
		out, err := json.Marshal(snap)
		require.NoError(t, err)
		var roundTrip map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &roundTrip))
		assert.JSONEq(t, `"m1"`, string(roundTrip["matchId"]))
		assert.JSONEq(t, `"t1"`, string(roundTrip["teamId"]))
		assert.NotContains(t, roundTrip, "recovered")
	})

	t.Run("dirty blob comes back repaired and flagged", func(t *testing.T) {
		raw := []byte(`{"events":[
			{"id":"b","type":"GOAL_SCORED","timestamp":2000,"sequence":9},
			null,
			{"id":"a","type":"MATCH_START","timestamp":1000,"sequence":1},
			{"id":"a","type":"MATCH_START","timestamp":1000,"sequence":2}
		],"matchId":"m1"}`)

		snap := recovery.ValidateAndRestore(raw)
		require.NotNil(t, snap)
		assert.True(t, snap.Recovered)
		require.Len(t, snap.Events, 2)
		assert.Equal(t, "a", snap.Events[0].ID)

		out, err := json.Marshal(snap)
		require.NoError(t, err)
		var roundTrip map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(out, &roundTrip))
		assert.JSONEq(t, `true`, string(roundTrip["recovered"]))
		assert.JSONEq(t, `"m1"`, string(roundTrip["matchId"]))
	})

	t.Run("events field that is not an array recovers to empty", func(t *testing.T) {
		snap := recovery.ValidateAndRestore([]byte(`{"events":"garbage"}`))
		require.NotNil(t, snap)
		assert.True(t, snap.Recovered)
		assert.Empty(t, snap.Events)
	})
}

func TestFromCrash(t *testing.T) {
	validBlob := `{"events":[{"id":"a","type":"MATCH_START","timestamp":1000,"sequence":1}]}`

	t.Run("returns the first usable candidate", func(t *testing.T) {
		store := recovery.NewMockBlobStore(map[string]string{
			recovery.LiveStateKey: validBlob,
		})
		snap := recovery.FromCrash(store)
		require.NotNil(t, snap)
		assert.Len(t, snap.Events, 1)
	})

	t.Run("falls back past an unparseable blob", func(t *testing.T) {
		store := recovery.NewMockBlobStore(map[string]string{
			recovery.LiveStateKey:   `{broken`,
			recovery.BackupStateKey: validBlob,
		})
		snap := recovery.FromCrash(store)
		require.NotNil(t, snap)
		assert.Len(t, snap.Events, 1)
		assert.Equal(t, []string{recovery.LiveStateKey, recovery.BackupStateKey}, store.GetBlobCalls)
	})

	t.Run("nil when no candidate exists", func(t *testing.T) {
		store := recovery.NewMockBlobStore(nil)
		assert.Nil(t, recovery.FromCrash(store))
	})
}
