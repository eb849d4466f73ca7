package ports

import (
	"context"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// UpdateUserFields carries the mutable profile fields for an update. Nil
// pointers mean "leave unchanged". The password never travels through here;
// it has its own dedicated path so a profile update can never re-hash.
type UpdateUserFields struct {
	Name  *string
	Email *string
	Role  *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches on the normalized (lowercased) address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	// UpdatePasswordHash replaces only the stored hash.
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	Delete(ctx context.Context, id string) error
}
