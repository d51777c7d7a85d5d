package repository

import (
	"context"

	"github.com/oksasatya/sample-social/internal/domain/entity"
)

type StatusRepository interface {
	// ListByUser returns statuses newest first.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]entity.Status, int, error)
}
