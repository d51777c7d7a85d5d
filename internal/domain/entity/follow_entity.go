package entity

import "time"

// Follow is a directed edge: FollowerID follows FolloweeID.
// The pair is unique and a user never follows itself.
type Follow struct {
	FollowerID string
	FolloweeID string
	CreatedAt  time.Time
}
