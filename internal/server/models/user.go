// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is stored as a string tag.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Status is the account lifecycle state, stored as a string tag.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusActive  Status = "ACTIVE"
	StatusBanned  Status = "BANNED"
	StatusDeleted Status = "DELETED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusBanned, StatusDeleted:
		return true
	}
	return false
}

type User struct {
	ID               string
	Email            string
	PasswordHash     string
	Nickname         string
	Name             string
	Role             Role
	Status           Status
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Actor is the authenticated caller, resolved once at the request boundary
// and passed explicitly into every service call.
type Actor struct {
	UserID string
	Role   Role
	Status Status
}

// ActorOf builds the Actor view of a stored user.
func ActorOf(u *User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, Status: u.Status}
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
