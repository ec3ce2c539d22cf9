package models

import "time"

type TeamKind string

const (
	TeamKindClub     TeamKind = "club"
	TeamKindOpponent TeamKind = "opponent"
)

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Kind      TeamKind  `json:"kind" db:"kind"`
	CoachName *string   `json:"coach_name,omitempty" db:"coach_name"`
	Founded   *int      `json:"founded,omitempty" db:"founded"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Players []Player `json:"players,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}
