package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID              string
	Name            string
	Email           string
	Password        string
	AvatarURL       string
	IsAdmin         bool
	Activated       bool
	ActivationToken string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsSame reports whether u and other are the same account.
func (u *User) IsSame(other *User) bool {
	return u != nil && other != nil && u.ID == other.ID
}
