package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the 10-round salt used since the first deployment.
// Changing it only affects newly hashed passwords.
const bcryptCost = 10

// dummyHash is a bcrypt hash of a random throwaway value. Login compares
// against it when the account does not exist so the response time does not
// reveal whether an email is registered.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword computes a salted bcrypt hash of the plaintext. A failure
// here is fatal to the surrounding write.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash. A mismatch is
// a plain false, never an error.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
