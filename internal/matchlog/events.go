package matchlog

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// knownTypes is the closed set of event types the engine understands. Events
// of any other type are treated as corrupted by the validator and dropped by
// the recovery engine.
var knownTypes = map[EventType]struct{}{
	EventMatchStart:        {},
	EventMatchEnd:          {},
	EventSubstitution:      {},
	EventGoalieSwitch:      {},
	EventGoalScored:        {},
	EventGoalConceded:      {},
	EventTimerPaused:       {},
	EventTimerResumed:      {},
	EventPeriodStart:       {},
	EventPeriodEnd:         {},
	EventPeriodPaused:      {},
	EventPeriodResumed:     {},
	EventPositionSwitch:    {},
	EventSubOrderChanged:   {},
	EventPlayerInactivated: {},
	EventPlayerReactivated: {},
}

// KnownType reports whether t is part of the event taxonomy.
func KnownType(t EventType) bool {
	_, ok := knownTypes[t]
	return ok
}

// NewEvent constructs a log entry with a fresh id. The caller owns sequence
// numbering; the live session appends with its own dense counter.
func NewEvent(t EventType, timestampMillis, sequence int64, period int, payload any) (Event, error) {
	ev := Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: timestampMillis,
		Sequence:  sequence,
		Period:    period,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("failed to marshal %s payload: %w", t, err)
		}
		ev.Data = data
	}
	return ev, nil
}

// MatchStart decodes the MATCH_START payload. Returns false when the event is
// not a MATCH_START or its payload does not decode.
func (e Event) MatchStart() (MatchStartData, bool) {
	if e.Type != EventMatchStart {
		return MatchStartData{}, false
	}
	var d MatchStartData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return MatchStartData{}, false
	}
	return d, true
}

// Substitution decodes the SUBSTITUTION payload.
func (e Event) Substitution() (SubstitutionData, bool) {
	if e.Type != EventSubstitution {
		return SubstitutionData{}, false
	}
	var d SubstitutionData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return SubstitutionData{}, false
	}
	return d, true
}

// GoalieSwitch decodes the GOALIE_SWITCH payload.
func (e Event) GoalieSwitch() (GoalieSwitchData, bool) {
	if e.Type != EventGoalieSwitch {
		return GoalieSwitchData{}, false
	}
	var d GoalieSwitchData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return GoalieSwitchData{}, false
	}
	return d, true
}

// PositionSwitch decodes the POSITION_SWITCH payload.
func (e Event) PositionSwitch() (PositionSwitchData, bool) {
	if e.Type != EventPositionSwitch {
		return PositionSwitchData{}, false
	}
	var d PositionSwitchData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return PositionSwitchData{}, false
	}
	return d, true
}
