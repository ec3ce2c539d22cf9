package models

import (
	"encoding/json"
	"time"
)

// ArchiveSource labels which collection a deleted document came from.
type ArchiveSource string

const (
	ArchiveSourceUsers   ArchiveSource = "users"
	ArchiveSourceTeams   ArchiveSource = "teams"
	ArchiveSourcePlayers ArchiveSource = "players"
	ArchiveSourceNews    ArchiveSource = "news"
	ArchiveSourceStaff   ArchiveSource = "staff"
)

func ValidArchiveSource(s ArchiveSource) bool {
	switch s {
	case ArchiveSourceUsers, ArchiveSourceTeams, ArchiveSourcePlayers, ArchiveSourceNews, ArchiveSourceStaff:
		return true
	}
	return false
}

// Archive holds the pre-deletion snapshot of a soft-removed document.
type Archive struct {
	ID        int             `json:"id" db:"id"`
	Source    ArchiveSource   `json:"source" db:"source"`
	SourceID  int             `json:"source_id" db:"source_id"`
	Snapshot  json.RawMessage `json:"snapshot" db:"snapshot"`
	DeletedBy *int            `json:"deleted_by,omitempty" db:"deleted_by"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
