package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Satisfies reports whether a holder of role r clears the bar set by
// required. Admins clear every bar.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Contact      string
	Role         Role
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
