package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Password length limits.  bcrypt ignores input beyond 72 bytes.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
)

var ErrPasswordPolicy = errors.New("password must be between 8 and 72 bytes")

// CheckPasswordPolicy validates a password before it is hashed.
func CheckPasswordPolicy(plain string) error {
	if len(plain) < MinPasswordLen || len(plain) > MaxPasswordLen {
		return ErrPasswordPolicy
	}
	return nil
}

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if err := CheckPasswordPolicy(plain); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
