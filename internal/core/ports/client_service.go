package ports

import (
	"context"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// CreateClientInput carries the fields for a new client record.
type CreateClientInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// ClientService manages client records.
type ClientService interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
	Create(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, id string, fields UpdateClientFields) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
}
