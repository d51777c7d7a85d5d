package entity

import "time"

// RoleAdmin grants the admin capability checked by the user policy.
const RoleAdmin = "admin"

// Role represents an authorization role
// Many-to-many with User via user_roles
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
