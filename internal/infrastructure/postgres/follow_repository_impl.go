package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/internal/domain/repository"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	if !validID(followerID, followeeID) {
		return false, repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return false, repository.ErrNotFound
		}
		return false, fmt.Errorf("insert follow: %w", err)
	}
	return res.RowsAffected() == 1, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	if !validID(followerID, followeeID) {
		return false, nil
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	return res.RowsAffected() == 1, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	if !validID(followerID, followeeID) {
		return false, nil
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)
	`, followerID, followeeID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return ok, nil
}

func (r *FollowRepository) Followers(ctx context.Context, userID string, offset, limit int) ([]entity.User, int, error) {
	return r.page(ctx, "followee_id", "follower_id", userID, offset, limit)
}

func (r *FollowRepository) Followings(ctx context.Context, userID string, offset, limit int) ([]entity.User, int, error) {
	return r.page(ctx, "follower_id", "followee_id", userID, offset, limit)
}

// page selects the users on the `other` side of edges whose `self` column is userID.
// Column names come from the two callers above, never from input.
func (r *FollowRepository) page(ctx context.Context, self, other, userID string, offset, limit int) ([]entity.User, int, error) {
	if !validID(userID) {
		return []entity.User{}, 0, nil
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM follows WHERE `+self+` = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count follows: %w", err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM follows f
		JOIN users u ON u.id = f.`+other+`
		WHERE f.`+self+` = $1
		ORDER BY f.seq
		OFFSET $2 LIMIT $3
	`, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list follows: %w", err)
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
