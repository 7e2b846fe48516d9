package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the fixed bcrypt cost for stored passwords.
const PasswordHashCost = 10

var (
	ErrPasswordRequired     = NewValidationError("password is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// HashPassword returns a salted bcrypt digest of plaintext.
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrPasswordRequired
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordHashCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

// CheckPassword compares plaintext against a digest from HashPassword.
func CheckPassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
