package domain

import (
	"strings"
	"time"
)

// User is an account that submits, owns or works tickets.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName joins first and last name.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Actor converts the user into the identity recorded on audit entries.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Email: u.Email, Name: u.DisplayName()}
}
