package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

func dispatch(t *testing.T, err error) (int, errorEnvelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.New(io.Discard))
	handler(err, c)

	var env errorEnvelope
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &env); decodeErr != nil {
		t.Fatalf("decode envelope: %v (body %q)", decodeErr, rec.Body.String())
	}
	return rec.Code, env
}

func TestErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"cast", &domain.CastError{Entity: "client"}, http.StatusBadRequest, "invalid client id"},
		{"duplicate", &domain.DuplicateKeyError{Field: "email"}, http.StatusBadRequest, "the email provided is already in use"},
		{"validation", &domain.ValidationError{Messages: []string{"please add a name", "please add an email"}}, http.StatusBadRequest, "please add a name, please add an email"},
		{"not authorized", domain.ErrNotAuthorized, http.StatusUnauthorized, "not authorized to access this route"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"wrong password", domain.ErrWrongPassword, http.StatusUnauthorized, "current password is incorrect"},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too many login attempts, try again later"},
		{"forbidden", &domain.ForbiddenError{Role: "employee"}, http.StatusForbidden, "user role employee is not authorized to access this route"},
		{"not found", &domain.NotFoundError{Entity: "appointment"}, http.StatusNotFound, "appointment not found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := dispatch(t, tc.err)
			if code != tc.wantCode {
				t.Fatalf("status = %d, want %d", code, tc.wantCode)
			}
			if env.Success {
				t.Fatalf("success should be false")
			}
			if env.Error != tc.wantMsg {
				t.Fatalf("message = %q, want %q", env.Error, tc.wantMsg)
			}
		})
	}
}

func TestErrorHandler_WrappedError(t *testing.T) {
	err := fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	code, env := dispatch(t, err)
	if code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
	if env.Error != "invalid credentials" {
		t.Fatalf("message = %q", env.Error)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, env := dispatch(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if env.Error != "Not Found" {
		t.Fatalf("message = %q", env.Error)
	}
}

func TestErrorHandler_UnknownError(t *testing.T) {
	code, env := dispatch(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if env.Error != "server error" {
		t.Fatalf("internal cause leaked: %q", env.Error)
	}
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.NoContent(http.StatusOK)

	handler := NewHTTPErrorHandler(zerolog.New(io.Discard))
	handler(errors.New("late failure"), c)

	if rec.Code != http.StatusOK {
		t.Fatalf("committed response was rewritten: %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("body written after commit: %q", rec.Body.String())
	}
}
