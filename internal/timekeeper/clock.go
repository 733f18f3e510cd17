package timekeeper

import "time"

// Clock supplies "now" for replays of logs that are still live (no MATCH_END
// yet, or a pause left open). Injecting it keeps the replay deterministic in
// tests.
type Clock interface {
	NowMillis() int64
}

type systemClock struct{}

func (systemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}
