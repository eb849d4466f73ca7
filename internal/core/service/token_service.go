package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agendakit/crm-backend/internal/core/domain"
)

// TokenService issues and verifies HS256-signed bearer tokens. The secret
// and lifetime come from configuration at construction time and are never
// mutated afterwards.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

func NewTokenService(secret string, lifetime time.Duration) *TokenService {
	if lifetime <= 0 {
		lifetime = 30 * 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), lifetime: lifetime}
}

// Issue creates a signed token with the user id as subject and an absolute
// expiry computed from the configured lifetime.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject user id. Every failure mode (bad signature,
// wrong algorithm, malformed payload, expiry) collapses into
// domain.ErrNotAuthorized so callers cannot distinguish them.
func (s *TokenService) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrNotAuthorized
	}
	return claims.Subject, nil
}
