package models

import "time"

type Staff struct {
	ID        int        `json:"id" db:"id"`
	FullName  string     `json:"full_name" db:"full_name"`
	RoleTitle string     `json:"role_title" db:"role_title"`
	Bio       string     `json:"bio" db:"bio"`
	JoinedAt  *time.Time `json:"joined_at,omitempty" db:"joined_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
}
