package models

import "time"

// EventType tags the three kinds of match events sharing one
// application/revocation path.
type EventType string

const (
	EventTypeGoal   EventType = "goal"
	EventTypeCard   EventType = "card"
	EventTypeInjury EventType = "injury"
	EventTypeInfo   EventType = "info"
)

// PlayerRelation says how a player is tied to an event in the
// player_events index.
type PlayerRelation string

const (
	RelationScorer    PlayerRelation = "scorer"
	RelationAssist    PlayerRelation = "assist"
	RelationReceived  PlayerRelation = "received"
	RelationSustained PlayerRelation = "sustained"
)

type CardColor string

const (
	CardYellow CardColor = "yellow"
	CardRed    CardColor = "red"
)

func ValidCardColor(c CardColor) bool {
	return c == CardYellow || c == CardRed
}

type InjurySeverity string

const (
	InjuryMinor  InjurySeverity = "minor"
	InjuryMajor  InjurySeverity = "major"
	InjurySevere InjurySeverity = "severe"
)

func ValidInjurySeverity(s InjurySeverity) bool {
	switch s {
	case InjuryMinor, InjuryMajor, InjurySevere:
		return true
	}
	return false
}

type InjuryStatus string

const (
	InjuryRecovering   InjuryStatus = "recovering"
	InjuryRecovered    InjuryStatus = "recovered"
	InjuryOutForSeason InjuryStatus = "out_for_season"
)

func ValidInjuryStatus(s InjuryStatus) bool {
	switch s {
	case InjuryRecovering, InjuryRecovered, InjuryOutForSeason:
		return true
	}
	return false
}

type Goal struct {
	ID          int             `json:"id"`
	MatchID     int             `json:"match_id"`
	Minute      string          `json:"minute"`
	ForClub     bool            `json:"for_club"`
	ModeOfScore string          `json:"mode_of_score"`
	Scorer      PlayerSnapshot  `json:"scorer"`
	Assist      *PlayerSnapshot `json:"assist,omitempty"`
	CreatedBy   *int            `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`

	Match *Match `json:"match,omitempty"`
}

type Card struct {
	ID        int            `json:"id"`
	MatchID   int            `json:"match_id"`
	Minute    string         `json:"minute"`
	Color     CardColor      `json:"color"`
	Reason    string         `json:"reason"`
	Player    PlayerSnapshot `json:"player"`
	CreatedBy *int           `json:"created_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`

	Match *Match `json:"match,omitempty"`
}

type Injury struct {
	ID          int            `json:"id"`
	MatchID     *int           `json:"match_id,omitempty"` // nil for training-ground injuries
	Minute      string         `json:"minute"`
	Severity    InjurySeverity `json:"severity"`
	Status      InjuryStatus   `json:"status"`
	Description string         `json:"description"`
	Player      PlayerSnapshot `json:"player"`
	CreatedBy   *int           `json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`

	Match *Match `json:"match,omitempty"`
}
