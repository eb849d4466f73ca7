package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

// ClientService manages client records. Email is optional for clients but
// validated and normalized when present.
type ClientService struct {
	clients ports.ClientRepository
	log     zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, log zerolog.Logger) *ClientService {
	return &ClientService{clients: clients, log: log}
}

func (s *ClientService) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.clients.FindByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clients.FindAll(ctx)
}

func (s *ClientService) Create(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	var msgs []string
	if input.Name == "" {
		msgs = append(msgs, "please add a name")
	}
	email := domain.NormalizeEmail(input.Email)
	if email != "" && !domain.ValidEmail(email) {
		msgs = append(msgs, "please add a valid email address")
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	created, err := s.clients.Create(ctx, &domain.Client{
		Name:  input.Name,
		Email: email,
		Phone: input.Phone,
		Notes: input.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", created.ID).Msg("client created")
	return created, nil
}

func (s *ClientService) Update(ctx context.Context, id string, fields ports.UpdateClientFields) (*domain.Client, error) {
	var msgs []string
	if fields.Name != nil && *fields.Name == "" {
		msgs = append(msgs, "please add a name")
	}
	if fields.Email != nil && *fields.Email != "" {
		normalized := domain.NormalizeEmail(*fields.Email)
		if !domain.ValidEmail(normalized) {
			msgs = append(msgs, "please add a valid email address")
		}
		fields.Email = &normalized
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}
	return s.clients.Update(ctx, id, fields)
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("client_id", id).Msg("client deleted")
	return nil
}
