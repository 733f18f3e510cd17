package matchstore

import (
	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/planner"
	"github.com/mauv0809/touchline/internal/validator"
)

// MatchStore defines the persistence surface for match logs, the recorded
// per-player time, the plan-progress cache and the raw blob table used for
// crash recovery.
type MatchStore interface {
	UpsertLog(matchID, teamID, opponent string, events []matchlog.Event) error
	GetLog(matchID string) ([]matchlog.Event, error)
	GetMatch(matchID string) (*MatchRecord, error)
	GetMatches(teamID string) ([]MatchRecord, error)
	MarkFinalized(matchID string) error

	SaveRecordedTime(matchID string, recorded map[string]validator.RecordedSeconds) error
	GetRecordedTime(matchID string) (map[string]validator.RecordedSeconds, error)

	SavePlanProgress(progress planner.PlanProgress) error
	GetPlanProgress(teamID string) (*planner.PlanProgress, error)

	// GetBlob and SetBlob implement the recovery.BlobStore port.
	GetBlob(key string) (string, bool)
	SetBlob(key, value string) error

	Clear()
	ClearMatch(matchID string)
}
