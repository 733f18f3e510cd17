package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/matchstore"
	"github.com/mauv0809/touchline/internal/planner"
	"github.com/mauv0809/touchline/internal/recovery"
	"github.com/mauv0809/touchline/internal/timekeeper"
	"github.com/mauv0809/touchline/internal/validator"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID != "" {
			log.Info("Received request to clear a specific match", "matchID", matchID)
			s.Store.ClearMatch(matchID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared match %s from store!", matchID)
			log.Info("Successfully cleared match from store", "matchID", matchID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
			log.Info("Store cleared successfully")
		}
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teamID := r.URL.Query().Get("teamID")
		if teamID == "" {
			teamID = s.Cfg.TeamID
		}
		matches, err := s.Store.GetMatches(teamID)
		if err != nil {
			log.Error("Failed to list matches", "error", err, "teamID", teamID)
			http.Error(w, "Failed to list matches", http.StatusInternalServerError)
			return
		}
		writeJSON(w, matches)
	}
}

// MatchSummaryHandler replays the stored log and returns the derived facts
// without touching the match's finalized state.
func (s *Server) MatchSummaryHandler() http.HandlerFunc {
	type summaryResponse struct {
		MatchID         string                                 `json:"matchId"`
		TeamID          string                                 `json:"teamId"`
		Opponent        string                                 `json:"opponent,omitempty"`
		Finalized       bool                                   `json:"finalized"`
		EffectiveMillis int64                                  `json:"effectivePlayingTime"`
		GoalsScored     int                                    `json:"goalsScored"`
		GoalsConceded   int                                    `json:"goalsConceded"`
		PlayerTotals    map[string]timekeeper.PlayerTimeTotals `json:"playerTotals"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		rec, err := s.Store.GetMatch(matchID)
		if err != nil {
			log.Error("Failed to load match", "error", err, "matchID", matchID)
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}

		s.Metrics.IncReplays()
		scored, conceded := timekeeper.GoalTally(rec.Events)
		writeJSON(w, summaryResponse{
			MatchID:         rec.MatchID,
			TeamID:          rec.TeamID,
			Opponent:        rec.Opponent,
			Finalized:       rec.Finalized,
			EffectiveMillis: timekeeper.EffectivePlayingTime(rec.Events, s.Clock),
			GoalsScored:     scored,
			GoalsConceded:   conceded,
			PlayerTotals:    timekeeper.PlayerTotals(rec.Events, s.Clock),
		})
	}
}

func (s *Server) ValidateLogHandler() http.HandlerFunc {
	type validateResponse struct {
		MatchID  string            `json:"matchId"`
		Valid    bool              `json:"valid"`
		Critical bool              `json:"critical"`
		Issues   []validator.Issue `json:"issues"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		events, err := s.Store.GetLog(matchID)
		if err != nil {
			log.Error("Failed to load match log", "error", err, "matchID", matchID)
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}

		issues := validator.Validate(events)
		s.Metrics.IncValidationIssues(len(issues))
		if issues == nil {
			issues = []validator.Issue{}
		}
		writeJSON(w, validateResponse{
			MatchID:  matchID,
			Valid:    len(issues) == 0,
			Critical: validator.HasCritical(issues),
			Issues:   issues,
		})
	}
}

func (s *Server) RecoverLogHandler() http.HandlerFunc {
	type recoverResponse struct {
		MatchID        string `json:"matchId"`
		OriginalEvents int    `json:"originalEvents"`
		SalvagedEvents int    `json:"salvagedEvents"`
		Persisted      bool   `json:"persisted"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		rec, err := s.Store.GetMatch(matchID)
		if err != nil {
			log.Error("Failed to load match", "error", err, "matchID", matchID)
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}

		recovered := recovery.RecoverEvents(rec.Events)
		s.Metrics.IncRecoveries()

		if isDryRun {
			log.Info("[Dry Run] Would persist recovered log", "matchID", matchID, "events", len(recovered))
		} else {
			if err := s.Store.UpsertLog(rec.MatchID, rec.TeamID, rec.Opponent, recovered); err != nil {
				log.Error("Failed to persist recovered log", "error", err, "matchID", matchID)
				http.Error(w, "Failed to persist recovered log", http.StatusInternalServerError)
				return
			}
		}

		writeJSON(w, recoverResponse{
			MatchID:        matchID,
			OriginalEvents: len(rec.Events),
			SalvagedEvents: len(recovered),
			Persisted:      !isDryRun,
		})
	}
}

func (s *Server) FinalizeMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		result, err := s.Finalizer.Finalize(matchID, isDryRun)
		if err != nil {
			log.Error("Failed to finalize match", "error", err, "matchID", matchID)
			http.Error(w, "Failed to finalize match", http.StatusInternalServerError)
			return
		}
		writeJSON(w, result)
	}
}

func (s *Server) ReconcilePlanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		isDryRun := isDryRunFromContext(r)

		var in planner.Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			log.Error("Failed to decode reconcile request", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if in.CurrentTeamID == "" {
			in.CurrentTeamID = s.Cfg.TeamID
		}
		if in.Progress.TeamID == "" {
			cached, err := s.Store.GetPlanProgress(in.CurrentTeamID)
			if err != nil {
				log.Error("Failed to load cached plan progress", "error", err, "teamID", in.CurrentTeamID)
			} else if cached != nil {
				in.Progress = *cached
			}
		}

		progress := planner.Reconcile(in)
		s.Metrics.IncReconciles()

		if isDryRun {
			log.Info("[Dry Run] Would persist reconciled plan progress", "teamID", progress.TeamID)
		} else {
			if err := s.Store.SavePlanProgress(progress); err != nil {
				log.Error("Failed to persist plan progress", "error", err, "teamID", progress.TeamID)
				http.Error(w, "Failed to persist plan progress", http.StatusInternalServerError)
				return
			}
		}
		writeJSON(w, progress)
	}
}

// IngestLogHandler receives a pushed pub/sub message carrying a match log
// synced from a device and upserts it. The push wrapper is the standard
// GCP JSON envelope with a base64 MessagePack payload inside.
func (s *Server) IngestLogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received ingest log message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		var rec matchstore.MatchRecord
		if err := s.pubsub.ProcessMessage(rawData, &rec); err != nil {
			log.Error("Failed to decode match log payload", "error", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if rec.MatchID == "" {
			http.Error(w, "matchId is required", http.StatusBadRequest)
			return
		}

		if isDryRun {
			log.Info("[Dry Run] Would upsert synced match log", "matchID", rec.MatchID, "events", len(rec.Events))
		} else if err := s.Store.UpsertLog(rec.MatchID, rec.TeamID, rec.Opponent, rec.Events); err != nil {
			log.Error("Failed to upsert synced match log", "error", err, "matchID", rec.MatchID)
			http.Error(w, "Failed to save match log", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}
