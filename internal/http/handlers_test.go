package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/finalizer"
	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/matchstore"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/planner"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/timekeeper"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*Server, *notifier.Mock, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	store := matchstore.New(db)
	cfg := config.Config{TeamID: "team-1"}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	notif := notifier.NewMock()
	ps := pubsub.NewMock("TEST")
	clock := timekeeper.NewMock(90_000)
	fin := finalizer.New(store, notif, metricsSvc, ps, clock)

	server := NewServer(store, metricsSvc, metricsHandler, cfg, notif, fin, clock, ps)

	teardown := func() {
		if dbTeardown != nil {
			dbTeardown()
		}
		db.Close()
	}
	return server, notif, teardown
}

func seedMatch(t *testing.T, s *Server, matchID string, events []matchlog.Event) {
	t.Helper()
	require.NoError(t, s.Store.UpsertLog(matchID, "team-1", "FC Rival", events))
}

func validEvents() []matchlog.Event {
	return []matchlog.Event{
		{ID: "e1", Type: matchlog.EventMatchStart, Timestamp: 0, Sequence: 1, Period: 1,
			Data: json.RawMessage(`{"startingFormation":{"striker":"anna"}}`)},
		{ID: "e2", Type: matchlog.EventGoalScored, Timestamp: 30_000, Sequence: 2, Period: 1},
		{ID: "e3", Type: matchlog.EventMatchEnd, Timestamp: 60_000, Sequence: 3, Period: 1},
	}
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.Equal(t, "OK!", string(body))
}

func TestMatchSummaryHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	seedMatch(t, server, "m1", validEvents())

	t.Run("returns derived facts", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/summary?matchID=m1", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			MatchID         string `json:"matchId"`
			EffectiveMillis int64  `json:"effectivePlayingTime"`
			GoalsScored     int    `json:"goalsScored"`
			Finalized       bool   `json:"finalized"`
			PlayerTotals    map[string]struct {
				TimeOnField int64 `json:"timeOnField"`
			} `json:"playerTotals"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "m1", resp.MatchID)
		assert.Equal(t, int64(60_000), resp.EffectiveMillis)
		assert.Equal(t, 1, resp.GoalsScored)
		assert.False(t, resp.Finalized)
		assert.Equal(t, int64(60_000), resp.PlayerTotals["anna"].TimeOnField)
	})

	t.Run("missing matchID is a bad request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/summary", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown match is not found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/summary?matchID=nope", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestValidateLogHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	t.Run("clean log validates", func(t *testing.T) {
		seedMatch(t, server, "m1", validEvents())

		req := httptest.NewRequest("GET", "/validate?matchID=m1", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Valid    bool `json:"valid"`
			Critical bool `json:"critical"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.False(t, resp.Critical)
	})

	t.Run("duplicate ids fail validation", func(t *testing.T) {
		events := validEvents()
		events[1].ID = "e1"
		seedMatch(t, server, "m2", events)

		req := httptest.NewRequest("GET", "/validate?matchID=m2", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Valid    bool `json:"valid"`
			Critical bool `json:"critical"`
			Issues   []struct {
				Type string `json:"type"`
			} `json:"issues"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.Valid)
		assert.False(t, resp.Critical, "Structural defects are repairable, not critical")
		require.NotEmpty(t, resp.Issues)
	})
}

func TestRecoverLogHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	events := validEvents()
	events[1].ID = "e1" // duplicate collapses during recovery
	seedMatch(t, server, "m1", events)

	t.Run("dry run computes without persisting", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/recover?matchID=m1&dry_run=true", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			SalvagedEvents int  `json:"salvagedEvents"`
			Persisted      bool `json:"persisted"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.SalvagedEvents)
		assert.False(t, resp.Persisted)

		stored, err := server.Store.GetLog("m1")
		require.NoError(t, err)
		assert.Len(t, stored, 3, "Dry run must not rewrite the stored log")
	})

	t.Run("recovery persists the rebuilt log", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/recover?matchID=m1", nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		stored, err := server.Store.GetLog("m1")
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, int64(1), stored[0].Sequence)
		assert.Equal(t, int64(2), stored[1].Sequence)
	})
}

func TestFinalizeMatchHandler(t *testing.T) {
	server, notif, teardown := setupTestServer(t)
	defer teardown()

	seedMatch(t, server, "m1", validEvents())

	req := httptest.NewRequest("POST", "/finalize?matchID=m1", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		MatchID         string `json:"matchId"`
		EffectiveMillis int64  `json:"effectivePlayingTime"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "m1", resp.MatchID)
	assert.Equal(t, int64(60_000), resp.EffectiveMillis)

	rec, err := server.Store.GetMatch("m1")
	require.NoError(t, err)
	assert.True(t, rec.Finalized)
	require.Len(t, notif.SendMatchSummaryCalls, 1)

	t.Run("second finalize is refused", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("POST", "/finalize?matchID=m1", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestReconcilePlanHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	t.Run("reconciles and persists progress", func(t *testing.T) {
		in := planner.Input{
			CurrentTeamID: "team-1",
			MatchesToPlan: []planner.Match{{ID: "f1", Opponent: "FC Rival"}},
			Progress: planner.PlanProgress{
				TeamID:                 "team-1",
				Matches:                []planner.Match{{ID: "f1"}, {ID: "gone"}},
				SelectedPlayersByMatch: map[string][]string{"f1": {"anna"}, "gone": {"bjorn"}},
				SortMetric:             planner.SortByName,
				PlannedMatchIDs:        []string{"f1"},
			},
		}
		body, _ := json.Marshal(in)

		req := httptest.NewRequest("POST", "/plan/reconcile", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var progress planner.PlanProgress
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
		assert.Equal(t, []string{"anna"}, progress.SelectedPlayersByMatch["f1"])
		assert.NotContains(t, progress.SelectedPlayersByMatch, "gone")

		cached, err := server.Store.GetPlanProgress("team-1")
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, planner.SortByName, cached.SortMetric)
	})

	t.Run("GET is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("GET", "/plan/reconcile", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestIngestLogHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	rec := matchstore.MatchRecord{MatchID: "m9", TeamID: "team-1", Opponent: "BK Syd", Events: validEvents()}
	packed, err := msgpack.Marshal(rec)
	require.NoError(t, err)

	envelope := fmt.Sprintf(`{"subscription":"s","message":{"data":%q}}`, base64.StdEncoding.EncodeToString(packed))

	req := httptest.NewRequest("POST", "/ingest-log", bytes.NewReader([]byte(envelope)))
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	stored, err := server.Store.GetLog("m9")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestListMatchesHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	seedMatch(t, server, "m1", validEvents())
	seedMatch(t, server, "m2", nil)

	req := httptest.NewRequest("GET", "/matches", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var matches []matchstore.MatchRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	assert.Len(t, matches, 2)
}

func TestClearStoreHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t)
	defer teardown()

	seedMatch(t, server, "m1", validEvents())
	seedMatch(t, server, "m2", nil)

	t.Run("clears a single match", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("POST", "/clear?matchID=m1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		_, err := server.Store.GetLog("m1")
		assert.Error(t, err)
		_, err = server.Store.GetLog("m2")
		assert.NoError(t, err)
	})

	t.Run("clears everything", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, httptest.NewRequest("POST", "/clear", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		_, err := server.Store.GetLog("m2")
		assert.Error(t, err)
	})
}
