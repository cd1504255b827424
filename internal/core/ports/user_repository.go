package ports

import (
	"context"

	"github.com/jobradar/jobradar/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrUserExists when the unique
	// index on email rejects the document.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// All returns every registered user (the digest recipient list).
	All(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
