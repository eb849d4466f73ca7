package ports

import (
	"context"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// CreateUserInput carries the fields for an admin-initiated user creation.
// Unlike registration, the role is required here.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserService covers the self-service profile operations and the admin-only
// account management surface.
type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// UpdateDetails changes the caller's own name and/or email.
	UpdateDetails(ctx context.Context, userID string, name, email *string) (*domain.User, error)
}
