package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized     = errors.New("admin credentials required")
	ErrEmptyPassword    = errors.New("admin password must not be empty")
	ErrSessionsDisabled = errors.New("admin sessions are disabled")
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 12

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if cost == 0 {
		cost = DefaultBcryptCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the hash.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
