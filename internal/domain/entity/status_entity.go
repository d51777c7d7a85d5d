package entity

import "time"

type Status struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}
