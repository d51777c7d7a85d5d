package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/sample-social/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u and fills ID and timestamps. A taken email yields ErrDuplicateEmail.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Activate marks the owner of token as activated and clears the token in one statement.
	Activate(ctx context.Context, token string) (*entity.User, error)
	// UpdateProfile writes name and, when passwordHash is non-nil, the new hash.
	UpdateProfile(ctx context.Context, id, name string, passwordHash *string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]entity.User, int, error)
}
