package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// errorEnvelope is the uniform failure shape. Every error leaving the
// process boundary resolves to exactly one of these.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns the single terminal stage that converts any
// failure surfaced during handling into the error envelope:
//   - Tagged domain errors map to deterministic status codes.
//   - Unclassified errors log the real cause and return a generic 500.
//   - Handlers and services never pick status codes themselves.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorEnvelope{Success: false, Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var (
		cast      *domain.CastError
		duplicate *domain.DuplicateKeyError
		invalid   *domain.ValidationError
		forbidden *domain.ForbiddenError
		notFound  *domain.NotFoundError
	)

	switch {
	case errors.As(err, &cast):
		return http.StatusBadRequest, cast.Error()
	case errors.As(err, &duplicate):
		return http.StatusBadRequest, duplicate.Error()
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusUnauthorized, domain.ErrNotAuthorized.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusUnauthorized, domain.ErrWrongPassword.Error()
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, domain.ErrTooManyAttempts.Error()
	case errors.As(err, &forbidden):
		return http.StatusForbidden, forbidden.Error()
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	}

	// Unexpected error: log the real cause, never leak it to the client.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "server error"
}
