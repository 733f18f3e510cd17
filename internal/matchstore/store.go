package matchstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/planner"
	"github.com/mauv0809/touchline/internal/validator"
)

// New creates a new MatchStore.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

// UpsertLog inserts or replaces a persisted match log. It is "dumb" and does
// not touch the finalized flag of an existing match.
func (s *store) UpsertLog(matchID, teamID, opponent string, events []matchlog.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	eventsJSON, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal events for match %s: %w", matchID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO match_logs (match_id, team_id, opponent, events_json, updated_at, finalized)
		VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT(match_id) DO UPDATE SET
			team_id = excluded.team_id,
			opponent = excluded.opponent,
			events_json = excluded.events_json,
			updated_at = excluded.updated_at;
	`, matchID, teamID, opponent, string(eventsJSON), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert match log: %w", err)
	}
	return nil
}

// GetLog retrieves the event log for a single match.
func (s *store) GetLog(matchID string) ([]matchlog.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var eventsJSON string
	err := s.db.QueryRow("SELECT events_json FROM match_logs WHERE match_id = ?", matchID).Scan(&eventsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match %s not found", matchID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var events []matchlog.Event
	if err := json.Unmarshal([]byte(eventsJSON), &events); err != nil {
		// A corrupted column is not fatal for the caller; the recovery
		// engine deals with the raw blob path instead.
		log.Error("Failed to unmarshal events_json", "error", err, "matchID", matchID)
		return []matchlog.Event{}, nil
	}
	return events, nil
}

// GetMatch retrieves a single persisted match with its bookkeeping columns.
func (s *store) GetMatch(matchID string) (*MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rec MatchRecord
	var opponent sql.NullString
	var eventsJSON string
	err := s.db.QueryRow(`
		SELECT match_id, team_id, opponent, events_json, finalized, updated_at
		FROM match_logs WHERE match_id = ?
	`, matchID).Scan(&rec.MatchID, &rec.TeamID, &opponent, &eventsJSON, &rec.Finalized, &rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match %s not found", matchID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	rec.Opponent = opponent.String
	if err := json.Unmarshal([]byte(eventsJSON), &rec.Events); err != nil {
		log.Error("Failed to unmarshal events_json", "error", err, "matchID", matchID)
		rec.Events = []matchlog.Event{}
	}
	return &rec, nil
}

// GetMatches retrieves all persisted matches for a team, newest first.
func (s *store) GetMatches(teamID string) ([]MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT match_id, team_id, opponent, events_json, finalized, updated_at
		FROM match_logs WHERE team_id = ? ORDER BY updated_at DESC
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var rec MatchRecord
		var opponent sql.NullString
		var eventsJSON string
		if err := rows.Scan(&rec.MatchID, &rec.TeamID, &opponent, &eventsJSON, &rec.Finalized, &rec.UpdatedAt); err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		rec.Opponent = opponent.String
		if err := json.Unmarshal([]byte(eventsJSON), &rec.Events); err != nil {
			log.Error("Failed to unmarshal events_json", "error", err, "matchID", rec.MatchID)
			rec.Events = []matchlog.Event{}
		}
		records = append(records, rec)
	}
	return records, nil
}

// MarkFinalized transitions a match to its immutable historical state.
func (s *store) MarkFinalized(matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE match_logs SET finalized = 1 WHERE match_id = ?", matchID)
	if err != nil {
		return fmt.Errorf("failed to mark match finalized: %w", err)
	}
	return nil
}

// SaveRecordedTime persists the seconds-granular per-player record for a
// match, replacing any previous record.
func (s *store) SaveRecordedTime(matchID string, recorded map[string]validator.RecordedSeconds) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM player_time WHERE match_id = ?", matchID); err != nil {
		return fmt.Errorf("failed to clear player time: %w", err)
	}

	for playerID, rec := range recorded {
		_, err := tx.Exec(`
			INSERT INTO player_time (match_id, player_id, seconds_on_field, seconds_as_defender, seconds_as_midfielder, seconds_as_attacker, seconds_as_goalie)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, matchID, playerID, rec.OnField, rec.Defender, rec.Midfielder, rec.Attacker, rec.Goalie)
		if err != nil {
			return fmt.Errorf("failed to insert player time for %s: %w", playerID, err)
		}
	}

	return tx.Commit()
}

// GetRecordedTime loads the persisted per-player record for a match. A match
// with no record yields an empty map, not an error.
func (s *store) GetRecordedTime(matchID string) (map[string]validator.RecordedSeconds, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT player_id, seconds_on_field, seconds_as_defender, seconds_as_midfielder, seconds_as_attacker, seconds_as_goalie
		FROM player_time WHERE match_id = ?
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player time: %w", err)
	}
	defer rows.Close()

	recorded := make(map[string]validator.RecordedSeconds)
	for rows.Next() {
		var playerID string
		var rec validator.RecordedSeconds
		if err := rows.Scan(&playerID, &rec.OnField, &rec.Defender, &rec.Midfielder, &rec.Attacker, &rec.Goalie); err != nil {
			log.Error("Failed to scan player time row", "error", err, "matchID", matchID)
			continue
		}
		recorded[playerID] = rec
	}
	return recorded, nil
}

// SavePlanProgress caches the planning session for its team.
func (s *store) SavePlanProgress(progress planner.PlanProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal plan progress: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO plan_progress (team_id, progress_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(team_id) DO UPDATE SET
			progress_json = excluded.progress_json,
			updated_at = excluded.updated_at;
	`, progress.TeamID, string(blob), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save plan progress: %w", err)
	}
	return nil
}

// GetPlanProgress loads the cached planning session for a team; nil when the
// team has none.
func (s *store) GetPlanProgress(teamID string) (*planner.PlanProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob string
	err := s.db.QueryRow("SELECT progress_json FROM plan_progress WHERE team_id = ?", teamID).Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var progress planner.PlanProgress
	if err := json.Unmarshal([]byte(blob), &progress); err != nil {
		log.Error("Failed to unmarshal plan progress, discarding cache", "error", err, "teamID", teamID)
		return nil, nil
	}
	return &progress, nil
}

// GetBlob reads a raw storage blob. Implements the recovery.BlobStore port.
func (s *store) GetBlob(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow("SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Error("Failed to read blob", "error", err, "key", key)
		}
		return "", false
	}
	return value, true
}

// SetBlob writes a raw storage blob.
func (s *store) SetBlob(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO blobs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"player_time", "match_logs", "plan_progress", "blobs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "error", err, "table", table)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) ClearMatch(matchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM match_logs WHERE match_id = ?", matchID)
	if err != nil {
		log.Error("Failed to clear match", "error", err, "matchID", matchID)
	}
}
