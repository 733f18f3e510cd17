// Package recovery reconstructs a usable match log from partially corrupted
// persisted data, e.g. after a crash mid-match. It is best-effort and never
// returns an error for bad data: failure paths degrade to empty results or a
// snapshot flagged as recovered.
package recovery

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/matchlog"
	"github.com/mauv0809/touchline/internal/validator"
)

// Storage keys the live match session writes its state under, probed in
// order of freshness during crash recovery.
const (
	LiveStateKey   = "touchline.live_match"
	BackupStateKey = "touchline.live_match.backup"
)

var crashKeys = []string{LiveStateKey, BackupStateKey}

// Snapshot is a persisted blob: the event log plus whatever extra fields the
// caller stored alongside it. Extra fields survive a recovery round-trip
// untouched.
type Snapshot struct {
	Events    []matchlog.Event
	Recovered bool

	extra map[string]json.RawMessage
}

// MarshalJSON writes the snapshot back in its persisted shape.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.extra)+2)
	for k, v := range s.extra {
		out[k] = v
	}
	events, err := json.Marshal(s.Events)
	if err != nil {
		return nil, err
	}
	out["events"] = events
	if s.Recovered {
		out["recovered"] = json.RawMessage("true")
	}
	return json.Marshal(out)
}

// RecoverEvents salvages an already-decoded log: unknown event types are
// dropped, duplicate ids deduplicated keeping the first occurrence, survivors
// re-sorted by timestamp and re-sequenced densely from 1. The operation is
// idempotent; running it on its own output is a no-op.
func RecoverEvents(events []matchlog.Event) []matchlog.Event {
	recovered := make([]matchlog.Event, 0, len(events))
	seen := make(map[string]bool, len(events))
	for _, ev := range events {
		if !matchlog.KnownType(ev.Type) {
			continue
		}
		if seen[ev.ID] {
			continue
		}
		seen[ev.ID] = true
		recovered = append(recovered, ev)
	}

	sort.SliceStable(recovered, func(i, j int) bool {
		return recovered[i].Timestamp < recovered[j].Timestamp
	})
	// Prior sequence numbers may have been invalidated by the filtering;
	// reassign a dense 1-based run matching the sort order.
	for i := range recovered {
		recovered[i].Sequence = int64(i + 1)
	}
	return recovered
}

// RecoverRaw salvages a log straight from untrusted JSON. Input that is not
// an array yields an empty log; entries that are null, not objects, or
// undecodable are dropped individually.
func RecoverRaw(raw json.RawMessage) []matchlog.Event {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []matchlog.Event{}
	}

	events := make([]matchlog.Event, 0, len(entries))
	for _, entry := range entries {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var ev matchlog.Event
		if err := json.Unmarshal(trimmed, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return RecoverEvents(events)
}

// ValidateAndRestore parses a persisted blob and returns it unchanged when
// its log validates clean, or with the log replaced by the recovery output
// and Recovered set when it does not. Invalid JSON yields nil; nothing here
// ever panics or errors on bad data.
func ValidateAndRestore(raw []byte) *Snapshot {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	eventsRaw := fields["events"]
	delete(fields, "events")
	delete(fields, "recovered")

	var events []matchlog.Event
	if err := json.Unmarshal(eventsRaw, &events); err == nil {
		if issues := validator.Validate(events); len(issues) == 0 {
			return &Snapshot{Events: events, extra: fields}
		}
	}

	recovered := RecoverRaw(eventsRaw)
	log.Warn("Restored a corrupted match log", "salvaged_events", len(recovered))
	return &Snapshot{Events: recovered, Recovered: true, extra: fields}
}

// FromCrash probes the well-known storage keys and returns the first
// snapshot that can be parsed or repaired, or nil when no candidate blob is
// usable.
func FromCrash(store BlobStore) *Snapshot {
	for _, key := range crashKeys {
		blob, ok := store.GetBlob(key)
		if !ok {
			continue
		}
		snap := ValidateAndRestore([]byte(blob))
		if snap == nil {
			log.Warn("Persisted match state is unparseable", "key", key)
			continue
		}
		log.Info("Recovered match state from storage", "key", key, "events", len(snap.Events), "repaired", snap.Recovered)
		return snap
	}
	return nil
}
