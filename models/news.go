package models

import "time"

type News struct {
	ID        int       `json:"id" db:"id"`
	Slug      string    `json:"slug" db:"slug"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Published bool      `json:"published" db:"published"`
	AuthorID  *int      `json:"author_id,omitempty" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Author *User `json:"author,omitempty" db:"-"`

	CoverKey *string `json:"-" db:"cover_key"`
	CoverURL *string `json:"cover_url,omitempty" db:"-"`
}
