package matchstore

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/touchline/internal/matchlog"
)

// store handles all database operations for persisted match logs.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MatchRecord is a persisted match log with its bookkeeping columns.
type MatchRecord struct {
	MatchID   string           `json:"match_id"`
	TeamID    string           `json:"team_id"`
	Opponent  string           `json:"opponent,omitempty"`
	Events    []matchlog.Event `json:"events"`
	Finalized bool             `json:"finalized"`
	UpdatedAt int64            `json:"updated_at"`
}
