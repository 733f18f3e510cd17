package slack

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/slack-go/slack"
)

// formatDuration renders milliseconds as mm:ss for the summary lines.
func formatDuration(millis int64) string {
	if millis < 0 {
		millis = 0
	}
	totalSeconds := millis / 1000
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// formatMatchSummary creates the Slack message for a finalized match using Block Kit.
func (s *Notifier) formatMatchSummary(summary notifier.MatchSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "⚽ Match finalized! ⚽", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details - Use newlines for clear separation.
	opponent := summary.Opponent
	if opponent == "" {
		opponent = "Unknown opponent"
	}
	detailsText := fmt.Sprintf("Opponent: %s\nScore: %d - %d\nEffective playing time: %s",
		opponent, summary.GoalsScored, summary.GoalsConceded, formatDuration(summary.EffectiveMillis))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	// Player minutes, sorted by time on field so the heaviest usage reads first.
	playerIDs := make([]string, 0, len(summary.PlayerTotals))
	for playerID := range summary.PlayerTotals {
		playerIDs = append(playerIDs, playerID)
	}
	sort.Slice(playerIDs, func(i, j int) bool {
		ti := summary.PlayerTotals[playerIDs[i]].TimeOnField
		tj := summary.PlayerTotals[playerIDs[j]].TimeOnField
		if ti != tj {
			return ti > tj
		}
		return playerIDs[i] < playerIDs[j]
	})
	var playerLines []string
	for _, playerID := range playerIDs {
		totals := summary.PlayerTotals[playerID]
		playerLines = append(playerLines, fmt.Sprintf("• %s: %s on field", playerID, formatDuration(totals.TimeOnField)))
	}
	if len(playerLines) > 0 {
		playersText := "Playing time:\n" + strings.Join(playerLines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playersText, true, false), nil, nil))
	}

	// Context - For simpler, single-line info.
	var contextElements []slack.MixedElement
	if summary.Recovered {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "🔧 This log was repaired before finalizing.", true, false))
	}
	if summary.WarningCount > 0 {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("⚠️ %d time accounting warning(s), see service logs.", summary.WarningCount), true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRecoveryNotice creates the Slack message sent when a corrupted log was rebuilt.
func (s *Notifier) formatRecoveryNotice(matchID string, salvagedEvents int) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🚑 Match log recovered", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Match %s had a corrupted event log. %d event(s) were salvaged and resequenced.", matchID, salvagedEvents)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	contextElements := []slack.MixedElement{
		slack.NewTextBlockObject("plain_text", "Totals below reflect only the salvaged events.", true, false),
	}
	blocks = append(blocks, slack.NewContextBlock("", contextElements...))

	return slack.NewBlockMessage(blocks...)
}
