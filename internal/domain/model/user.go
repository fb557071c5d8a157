package model

import "time"

// Role grants authorization level to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered customer or administrator.
type User struct {
	ID           int64
	Login        string
	Email        string
	PasswordHash string
	Role         Role
	XP           int64
	Level        int64
	CreatedAt    time.Time
}

// Principal is the verified identity attached to a request.
type Principal struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether principal holds the administrative role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
