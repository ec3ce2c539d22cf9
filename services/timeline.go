package services

import (
	"fmt"

	"github.com/clubops/club-system/models"
)

// Timeline narration lives in one place so every event type produces entries
// through the same formatter.

func goalTimelineEntry(goal *models.Goal) models.TimelineEntry {
	title := fmt.Sprintf("Goal! %s", goal.Scorer.Name)
	if !goal.ForClub {
		title = fmt.Sprintf("Goal conceded (%s)", goal.Scorer.Name)
	}
	description := goal.ModeOfScore
	if goal.Assist != nil && goal.Assist.Name != "" {
		if description != "" {
			description += ", "
		}
		description += fmt.Sprintf("assisted by %s", goal.Assist.Name)
	}
	return models.TimelineEntry{
		MatchID:     goal.MatchID,
		EntryType:   models.EventTypeGoal,
		Minute:      goal.Minute,
		Title:       title,
		Description: description,
	}
}

func cardTimelineEntry(card *models.Card) models.TimelineEntry {
	return models.TimelineEntry{
		MatchID:     card.MatchID,
		EntryType:   models.EventTypeCard,
		Minute:      card.Minute,
		Title:       fmt.Sprintf("%s card for %s", capitalize(string(card.Color)), card.Player.Name),
		Description: card.Reason,
	}
}

func injuryTimelineEntry(injury *models.Injury) models.TimelineEntry {
	matchID := 0
	if injury.MatchID != nil {
		matchID = *injury.MatchID
	}
	return models.TimelineEntry{
		MatchID:     matchID,
		EntryType:   models.EventTypeInjury,
		Minute:      injury.Minute,
		Title:       fmt.Sprintf("Injury: %s", injury.Player.Name),
		Description: fmt.Sprintf("%s injury. %s", capitalize(string(injury.Severity)), injury.Description),
	}
}

func revokedTimelineEntry(matchID int, eventType models.EventType, minute, who string) models.TimelineEntry {
	return models.TimelineEntry{
		MatchID:     matchID,
		EntryType:   models.EventTypeInfo,
		Minute:      minute,
		Title:       fmt.Sprintf("%s revoked", capitalize(string(eventType))),
		Description: who,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
