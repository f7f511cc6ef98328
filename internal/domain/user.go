package domain

import "time"

// User is the domain model for accounts that own tickets.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	RoleID       Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
