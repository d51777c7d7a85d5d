package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/sample-social/internal/domain/entity"
	"github.com/oksasatya/sample-social/internal/domain/repository"
)

type StatusRepository struct {
	pool *pgxpool.Pool
}

func NewStatusRepository(pool *pgxpool.Pool) *StatusRepository {
	return &StatusRepository{pool: pool}
}

func (r *StatusRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]entity.Status, int, error) {
	if !validID(userID) {
		return []entity.Status{}, 0, nil
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM statuses WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count statuses: %w", err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, user_id::text, content, created_at
		FROM statuses
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3
	`, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Status, 0)
	for rows.Next() {
		var s entity.Status
		if err := rows.Scan(&s.ID, &s.UserID, &s.Content, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

var _ repository.StatusRepository = (*StatusRepository)(nil)
