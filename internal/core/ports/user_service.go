package ports

import (
	"context"

	"github.com/sgea/academic-events/internal/core/domain"
)

// RegisterUserInput is the DTO passed from the transport layer to UserService.
type RegisterUserInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Phone           string
	Institution     string
	Role            string
	Password        string
	PasswordConfirm string
}

// UserService handles account registration, e-mail confirmation and login.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput, ip string) (*domain.User, error)
	Confirm(ctx context.Context, token, ip string) (*domain.User, error)
	// Login accepts either a username or an e-mail address as identifier.
	Login(ctx context.Context, identifier, password string) (string, *domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
}
