package ports

import (
	"context"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// RegisterInput carries the fields accepted by public registration. Role is
// optional; the service defaults it to employee when empty.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult pairs an authenticated user with a freshly issued token.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService implements registration, login and password changes. Every
// successful operation issues a new token.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// UpdatePassword requires proof of the current password.
	UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (*AuthResult, error)
}

// TokenService issues and verifies stateless bearer tokens.
type TokenService interface {
	Issue(userID string) (string, error)
	// Verify returns the embedded user id, or a single opaque error for any
	// failure (bad signature, malformed payload, expiry).
	Verify(token string) (string, error)
}

// LoginThrottle limits repeated failed logins for one account. Implementations
// are best-effort: a throttle backend outage must not lock users out.
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
