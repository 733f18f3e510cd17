package matchlog

import "encoding/json"

// EventType identifies what happened at a point in a match.
type EventType string

const (
	EventMatchStart        EventType = "MATCH_START"
	EventMatchEnd          EventType = "MATCH_END"
	EventSubstitution      EventType = "SUBSTITUTION"
	EventGoalieSwitch      EventType = "GOALIE_SWITCH"
	EventGoalScored        EventType = "GOAL_SCORED"
	EventGoalConceded      EventType = "GOAL_CONCEDED"
	EventTimerPaused       EventType = "TIMER_PAUSED"
	EventTimerResumed      EventType = "TIMER_RESUMED"
	EventPeriodStart       EventType = "PERIOD_START"
	EventPeriodEnd         EventType = "PERIOD_END"
	EventPeriodPaused      EventType = "PERIOD_PAUSED"
	EventPeriodResumed     EventType = "PERIOD_RESUMED"
	EventPositionSwitch    EventType = "POSITION_SWITCH"
	EventSubOrderChanged   EventType = "SUB_ORDER_CHANGED"
	EventPlayerInactivated EventType = "PLAYER_INACTIVATED"
	EventPlayerReactivated EventType = "PLAYER_REACTIVATED"
)

// Event is a single entry in the append-only match log. Timestamps are wall
// clock milliseconds; Sequence is a dense 1-based append counter.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Sequence  int64           `json:"sequence"`
	Period    int             `json:"period,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MatchStartData is the payload for MATCH_START.
type MatchStartData struct {
	// StartingFormation maps a formation position key (e.g. "leftDefender")
	// to the player occupying it at kickoff.
	StartingFormation map[string]string `json:"startingFormation"`
	// PlayerRoles optionally overrides the role derived from the position key.
	PlayerRoles map[string]string `json:"playerRoles,omitempty"`
}

// SubstitutionData is the payload for SUBSTITUTION.
type SubstitutionData struct {
	PlayersOff []string          `json:"playersOff"`
	PlayersOn  []string          `json:"playersOn"`
	NewRoles   map[string]string `json:"newRoles,omitempty"`
}

// GoalieSwitchData is the payload for GOALIE_SWITCH.
type GoalieSwitchData struct {
	OldGoalie string `json:"oldGoalie"`
	NewGoalie string `json:"newGoalie"`
}

// PositionSwitchData is the payload for POSITION_SWITCH. The player keeps the
// field but moves to a new formation position.
type PositionSwitchData struct {
	PlayerID    string `json:"playerId"`
	NewPosition string `json:"newPosition"`
}

// GoalData is the payload for GOAL_SCORED and GOAL_CONCEDED.
type GoalData struct {
	ScorerID   string `json:"scorerId,omitempty"`
	AssisterID string `json:"assisterId,omitempty"`
}
