package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// DefaultRole is assigned when a public registration omits the role field.
const DefaultRole = RoleEmployee

// User models an authenticated actor in the CRM.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEmployee
}

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// NormalizeEmail lowercases and trims an email address. Email uniqueness is
// case-insensitive, so every path that stores or looks up one goes through
// this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the address has a plausible mailbox format.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
