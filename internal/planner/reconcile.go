// Package planner reconciles a cached lineup-planning session against the
// authoritative current team and match list.
package planner

import "github.com/charmbracelet/log"

// Reconcile resolves the cached planning session against reality. The state
// machine runs over two axes: is a team selected at all, and does the cached
// session belong to it.
//
// No team, or a team switch, invalidates everything: selections and progress
// made for one team are meaningless for another. For the same team, an empty
// incoming match list means the coach is still viewing the cached fixtures,
// so they carry forward; otherwise the incoming list is authoritative and
// per-match state survives only for match ids that are still present.
// Selections orphaned by a match-list change are dropped.
func Reconcile(in Input) PlanProgress {
	if in.CurrentTeamID == "" {
		log.Debug("No active team, resetting planning session")
		return reset(in)
	}
	if in.Progress.TeamID != in.CurrentTeamID {
		log.Info("Team switched, resetting planning session", "from", in.Progress.TeamID, "to", in.CurrentTeamID)
		return reset(in)
	}

	matches := in.MatchesToPlan
	if len(matches) == 0 {
		matches = in.Progress.Matches
	}

	current := make(map[string]bool, len(matches))
	for _, m := range matches {
		current[m.ID] = true
	}

	selected := make(map[string][]string)
	for matchID, players := range in.Progress.SelectedPlayersByMatch {
		if current[matchID] {
			selected[matchID] = players
		}
	}

	planned := retainIDs(in.Progress.PlannedMatchIDs, current)
	seeded := retainIDs(in.Progress.InviteSeededMatchIDs, current)

	status := make(map[string]string, len(planned))
	for _, matchID := range planned {
		status[matchID] = PlanningDone
	}

	sortMetric := in.Progress.SortMetric
	if sortMetric == "" {
		sortMetric = DefaultSortMetric
	}

	return PlanProgress{
		TeamID:                 in.CurrentTeamID,
		Matches:                matches,
		SelectedPlayersByMatch: selected,
		SortMetric:             sortMetric,
		PlannedMatchIDs:        planned,
		InviteSeededMatchIDs:   seeded,
		PlanningStatus:         status,
	}
}

func reset(in Input) PlanProgress {
	return PlanProgress{
		TeamID:                 in.CurrentTeamID,
		Matches:                in.MatchesToPlan,
		SelectedPlayersByMatch: make(map[string][]string),
		SortMetric:             DefaultSortMetric,
		PlannedMatchIDs:        []string{},
		InviteSeededMatchIDs:   []string{},
		PlanningStatus:         make(map[string]string),
	}
}

func retainIDs(ids []string, keep map[string]bool) []string {
	retained := make([]string, 0, len(ids))
	for _, id := range ids {
		if keep[id] {
			retained = append(retained, id)
		}
	}
	return retained
}
