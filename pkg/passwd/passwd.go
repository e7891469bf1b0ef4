// Package passwd hashes and verifies user passwords with bcrypt.
package passwd

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password does not match its hash.
var ErrMismatch = errors.New("passwd: password does not match")

// DefaultCost is the bcrypt work factor used for new hashes.
const DefaultCost = 12

// Hash returns the bcrypt hash of a plaintext password.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("passwd: failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares a plaintext password against a stored bcrypt hash.
// Returns ErrMismatch when the password is wrong; any other error
// indicates a malformed hash.
func Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("passwd: failed to verify password: %w", err)
}
