package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/agendakit/crm-backend/internal/api/metrics"
	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

const minPasswordLength = 6

// AuthService implements registration, login and password changes. The
// throttle is optional; a nil throttle disables failed-login limiting.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, throttle: throttle, log: log}
}

// Register creates a user account and issues a token. A missing role
// defaults to employee; this is an input rule, not a storage default, so it
// holds regardless of the backing store.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	role := input.Role
	if role == "" {
		role = domain.DefaultRole
	}

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
	if !domain.ValidRole(role) {
		msgs = append(msgs, "role must be admin or employee")
	}
	if len(msgs) > 0 {
		return nil, &domain.ValidationError{Messages: msgs}
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(created.Role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")

	return &ports.AuthResult{Token: token, User: created}, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable: both cost one bcrypt comparison and both
// yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Messages: []string{"please provide an email and password"}}
	}

	email = domain.NormalizeEmail(email)

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyFailures(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		} else if blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	var notFound *domain.NotFoundError
	switch {
	case errors.As(err, &notFound):
		// Burn a comparison against the dummy hash so a miss costs the
		// same as a mismatch.
		CheckPassword(password, dummyHash)
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.AuthResult{Token: token, User: user}, nil
}

// UpdatePassword changes the caller's password after verifying the current
// one, then issues a fresh token. The new password is hashed exactly once.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (*ports.AuthResult, error) {
	if len(newPassword) < minPasswordLength {
		return nil, &domain.ValidationError{Messages: []string{"the password must be at least 6 characters long"}}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !CheckPassword(currentPassword, user.PasswordHash) {
		return nil, domain.ErrWrongPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login throttle record failed")
	}
}
