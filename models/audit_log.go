package models

import (
	"encoding/json"
	"time"
)

type LogSeverity string

const (
	SeverityInfo     LogSeverity = "info"
	SeverityWarning  LogSeverity = "warning"
	SeverityCritical LogSeverity = "critical"
)

func ValidLogSeverity(s LogSeverity) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

type AuditLog struct {
	ID          int             `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Severity    LogSeverity     `json:"severity" db:"severity"`
	Metadata    json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	UserID      *int            `json:"user_id,omitempty" db:"user_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
