package entity

import (
	"time"
)

// User is the aggregate root for the profile domain.
// Password always holds a bcrypt hash, never plaintext.
//
// IsAdmin is carried over from the source data model; no access-control
// path reads it.
type User struct {
	ID          string
	Name        string
	Username    string
	Email       string
	Password    string
	Location    string
	Cell        string
	Age         int
	Gender      string // "", "male" or "female"
	Skill       string
	Photo       string
	Gallery     []string
	IsActivated bool
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
