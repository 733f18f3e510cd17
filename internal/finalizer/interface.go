package finalizer

import (
	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/matchstore"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/validator"
)

// Store defines the database operations required by the finalizer.
type Store interface {
	GetMatch(matchID string) (*matchstore.MatchRecord, error)
	UpsertLog(matchID, teamID, opponent string, events []matchlog.Event) error
	MarkFinalized(matchID string) error
	SaveRecordedTime(matchID string, recorded map[string]validator.RecordedSeconds) error
	GetRecordedTime(matchID string) (map[string]validator.RecordedSeconds, error)
}

// Notifier defines the notification operations required by the finalizer.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
