package pkg

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultPasswordHashCost = 14

func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return BytesToString(bytes), err
}

// CheckPasswordHash reports whether the password matches the bcrypt hash.
// A mismatch is not an error; a hash that cannot be parsed is.
func CheckPasswordHash(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password hash: %w", err)
	}
}
