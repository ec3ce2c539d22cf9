package models

import "time"

type MatchStatus string

const (
	MatchStatusUpcoming MatchStatus = "upcoming"
	MatchStatusLive     MatchStatus = "live"
	MatchStatusFinished MatchStatus = "finished"
)

func ValidMatchStatus(s MatchStatus) bool {
	switch s {
	case MatchStatusUpcoming, MatchStatusLive, MatchStatusFinished:
		return true
	}
	return false
}

type MatchVenue string

const (
	VenueHome    MatchVenue = "home"
	VenueAway    MatchVenue = "away"
	VenueNeutral MatchVenue = "neutral"
)

func ValidMatchVenue(v MatchVenue) bool {
	switch v {
	case VenueHome, VenueAway, VenueNeutral:
		return true
	}
	return false
}

type Match struct {
	ID            int         `json:"id" db:"id"`
	OpponentID    int         `json:"opponent_id" db:"opponent_id"`
	Date          time.Time   `json:"date" db:"date"`
	Venue         MatchVenue  `json:"venue" db:"venue"`
	Season        string      `json:"season" db:"season"`
	Status        MatchStatus `json:"status" db:"status"`
	ClubScore     int         `json:"club_score" db:"club_score"`
	OpponentScore int         `json:"opponent_score" db:"opponent_score"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`

	Opponent *Team           `json:"opponent,omitempty" db:"-"`
	Goals    []Goal          `json:"goals,omitempty" db:"-"`
	Cards    []Card          `json:"cards,omitempty" db:"-"`
	Injuries []Injury        `json:"injuries,omitempty" db:"-"`
	Timeline []TimelineEntry `json:"timeline,omitempty" db:"-"`
}

// TimelineEntry is one narration line on a match's event timeline,
// consumed by the live ticker and the match page.
type TimelineEntry struct {
	ID          int       `json:"id"`
	MatchID     int       `json:"match_id"`
	EntryType   EventType `json:"entry_type"`
	Minute      string    `json:"minute"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
