package ports

import (
	"context"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// UpdateClientFields carries the mutable client fields; nil means unchanged.
type UpdateClientFields struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

// ClientRepository defines persistence operations for client records.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindAll(ctx context.Context) ([]*domain.Client, error)
	Update(ctx context.Context, id string, fields UpdateClientFields) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}
