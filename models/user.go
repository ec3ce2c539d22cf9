package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleCoach      UserRole = "coach"
	RoleMedical    UserRole = "medical"
	RoleEditor     UserRole = "editor"
	RoleMember     UserRole = "member"
)

// ValidUserRole reports whether the role matches one of the known values.
func ValidUserRole(r UserRole) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleCoach, RoleMedical, RoleEditor, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
