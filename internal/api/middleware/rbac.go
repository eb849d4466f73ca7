package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// RequireRole enforces role-based access. It must run after Auth; an absent
// identity is never a member of any role set.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return &domain.ForbiddenError{}
			}
			if _, ok := allowed[user.Role]; !ok {
				return &domain.ForbiddenError{Role: user.Role}
			}
			return next(c)
		}
	}
}
