package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agendakit/crm-backend/internal/api/middleware"
	"github.com/agendakit/crm-backend/internal/core/ports"
)

// CookieSettings controls the token cookie written on successful auth.
type CookieSettings struct {
	// TTL is the cookie lifetime (JWT_COOKIE_EXPIRE days at the config layer).
	TTL time.Duration
	// Secure restricts the cookie to HTTPS; set only in production.
	Secure bool
}

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieSettings
}

func NewAuthHandler(authService ports.AuthService, cookie CookieSettings) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  authEnvelope
// @Failure      400   {object}  map[string]any
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return h.sendTokenResponse(c, result)
}

// Login authenticates a user and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authEnvelope
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.sendTokenResponse(c, result)
}

// Logout clears the token cookie. Tokens are stateless, so this only
// instructs the client to discard its copy: the cookie is overwritten with a
// placeholder that expires almost immediately.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dataEnvelope
// @Router       /api/auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})

	return c.JSON(http.StatusOK, dataEnvelope{Success: true, Data: map[string]any{}})
}

// UpdatePassword changes the caller's password after verifying the current
// one, and re-issues the token.
//
// @Summary      Update own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  authEnvelope
// @Failure      401   {object}  map[string]any
// @Router       /api/users/updatepassword [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	result, err := h.authService.UpdatePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}

	return h.sendTokenResponse(c, result)
}

// sendTokenResponse writes the token cookie and the auth envelope. Used by
// every operation that issues a token so the cookie attributes stay in one
// place.
func (h *AuthHandler) sendTokenResponse(c echo.Context, result *ports.AuthResult) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    result.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})

	return c.JSON(http.StatusOK, authEnvelope{
		Success: true,
		Token:   result.Token,
		User: userView{
			ID:    result.User.ID,
			Name:  result.User.Name,
			Email: result.User.Email,
			Role:  result.User.Role,
		},
	})
}
