package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/agendakit/crm-backend/internal/api/metrics"
	"github.com/agendakit/crm-backend/internal/core/domain"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

// TokenCookie is the cookie the token falls back to when the Authorization
// header is absent.
const TokenCookie = "token"

// userKey is the echo context key the resolved identity is stored under.
const userKey = "user"

// UserFinder is the read path Auth needs to resolve a token subject into an
// identity.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth extracts a bearer token (Authorization header first, then the token
// cookie), verifies it, resolves the user, and stores the identity in the
// request context. Every failure collapses into the same 401: the response
// never reveals whether the token was missing, malformed, expired, or bound
// to a deleted account.
func Auth(tokens ports.TokenService, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrNotAuthorized
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return domain.ErrNotAuthorized
			}

			// A valid token for a since-deleted account is still a
			// rejection; a null identity must never reach a handler.
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				var notFound *domain.NotFoundError
				var cast *domain.CastError
				if errors.As(err, &notFound) || errors.As(err, &cast) {
					metrics.TokenRejectionsTotal.WithLabelValues("unknown_user").Inc()
					return domain.ErrNotAuthorized
				}
				return err
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by Auth, or nil when the route
// is unprotected.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}

func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
