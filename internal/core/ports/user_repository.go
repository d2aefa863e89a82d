package ports

import (
	"context"

	"github.com/sgea/academic-events/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create stores a new user and assigns its ID. Returns domain.ErrUserExists
	// when the username or e-mail is already taken.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Activate(ctx context.Context, id string) error
}
