package planner

// SortMetric orders the roster while picking players for upcoming matches.
type SortMetric string

const (
	SortByPlayTime   SortMetric = "playTime"
	SortByAttendance SortMetric = "attendance"
	SortByName       SortMetric = "name"
)

// DefaultSortMetric is applied whenever the planning session is reset.
const DefaultSortMetric = SortByPlayTime

// PlanningDone marks a match whose lineup planning is finished.
const PlanningDone = "done"

// Match is an upcoming fixture being pre-planned.
type Match struct {
	ID            string `json:"id"`
	Opponent      string `json:"opponent,omitempty"`
	KickoffMillis int64  `json:"kickoffMillis,omitempty"`
}

// PlanProgress is the cached planning-session state for one team. It is
// created fresh on team switch, mutated by Reconcile as the match list
// changes, and persisted as an opaque blob between sessions.
type PlanProgress struct {
	TeamID                 string              `json:"teamId"`
	Matches                []Match             `json:"matches"`
	SelectedPlayersByMatch map[string][]string `json:"selectedPlayersByMatch"`
	SortMetric             SortMetric          `json:"sortMetric"`
	PlannedMatchIDs        []string            `json:"plannedMatchIds"`
	InviteSeededMatchIDs   []string            `json:"inviteSeededMatchIds"`
	PlanningStatus         map[string]string   `json:"planningStatus"`
}

// Input carries everything Reconcile needs: the authoritative team and match
// list plus the cached session.
type Input struct {
	CurrentTeamID string       `json:"currentTeamId"`
	MatchesToPlan []Match      `json:"matchesToPlan"`
	Progress      PlanProgress `json:"progress"`
}
