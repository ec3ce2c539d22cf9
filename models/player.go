package models

import "time"

type Player struct {
	ID          int        `json:"id" db:"id"`
	Slug        string     `json:"slug" db:"slug"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Number      int        `json:"number" db:"number"`
	Position    string     `json:"position" db:"position"`
	TeamID      *int       `json:"team_id,omitempty" db:"team_id"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
}

// FullName joins first and last name; players registered with a single
// name keep just that.
func (p Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// PlayerSnapshot is the denormalized copy of player identity embedded in
// every event row. It can drift from the live player record; that is the
// accepted cost of reading events without a join.
type PlayerSnapshot struct {
	PlayerID *int   `json:"player_id,omitempty"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Position string `json:"position"`
}

// SnapshotOf captures the identity fields of a player at event time.
func SnapshotOf(p *Player) PlayerSnapshot {
	if p == nil {
		return PlayerSnapshot{}
	}
	id := p.ID
	return PlayerSnapshot{
		PlayerID: &id,
		Name:     p.FullName(),
		Number:   p.Number,
		Position: p.Position,
	}
}
