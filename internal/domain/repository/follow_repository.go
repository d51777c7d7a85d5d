package repository

import (
	"context"

	"github.com/oksasatya/sample-social/internal/domain/entity"
)

// FollowRepository stores follow edges. Create and Delete are idempotent and
// report whether a row changed.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID string) (bool, error)
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	// Followers lists users following userID in edge insertion order.
	Followers(ctx context.Context, userID string, offset, limit int) ([]entity.User, int, error)
	// Followings lists users that userID follows in edge insertion order.
	Followings(ctx context.Context, userID string, offset, limit int) ([]entity.User, int, error)
}
