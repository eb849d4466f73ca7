package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

// UserService implements profile and admin account management on top of the
// user repository. Password material never passes through Update; admin
// creation reuses the same hashing path as registration.
type UserService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

// Create is the admin-initiated variant of registration: the role is
// mandatory and no token is issued.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	email := domain.NormalizeEmail(input.Email)

	var msgs []string
	if input.Name == "" {
		msgs = append(msgs, "please add a name")
	}
	if email == "" {
		msgs = append(msgs, "please add an email")
	} else if !domain.ValidEmail(email) {
		msgs = append(msgs, "please add a valid email address")
	}
	if len(input.Password) < minPasswordLength {
		msgs = append(msgs, "the password must be at least 6 characters long")
	}
	if !domain.ValidRole(input.Role) {
		msgs = append(msgs, "role must be admin or employee")
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created by admin")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	if err := validateUserFields(&fields); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, id, fields)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// UpdateDetails changes the caller's own name and/or email; the role is
// deliberately not reachable from here.
func (s *UserService) UpdateDetails(ctx context.Context, userID string, name, email *string) (*domain.User, error) {
	fields := ports.UpdateUserFields{Name: name, Email: email}
	if err := validateUserFields(&fields); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, userID, fields)
}

func validateUserFields(fields *ports.UpdateUserFields) error {
	var msgs []string
	if fields.Name != nil && *fields.Name == "" {
		msgs = append(msgs, "please add a name")
	}
	if fields.Email != nil {
		normalized := domain.NormalizeEmail(*fields.Email)
		if !domain.ValidEmail(normalized) {
			msgs = append(msgs, "please add a valid email address")
		}
		fields.Email = &normalized
	}
	if fields.Role != nil && !domain.ValidRole(*fields.Role) {
		msgs = append(msgs, "role must be admin or employee")
	}
	if len(msgs) > 0 {
		return &domain.ValidationError{Messages: msgs}
	}
	return nil
}
