package models

import "time"

type Training struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Date      time.Time `json:"date" db:"date"`
	Location  string    `json:"location" db:"location"`
	Focus     string    `json:"focus" db:"focus"`
	Notes     string    `json:"notes" db:"notes"`
	CoachID   *int      `json:"coach_id,omitempty" db:"coach_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Coach *User `json:"coach,omitempty" db:"-"`
}
