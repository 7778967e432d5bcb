package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "correct horse") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong horse") {
		t.Fatal("wrong password verified")
	}
	if _, err := HashPassword("short", bcrypt.MinCost); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("err = %v, want ErrPasswordPolicy", err)
	}
	if err := CheckPasswordPolicy(strings.Repeat("x", 73)); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("err = %v, want ErrPasswordPolicy", err)
	}
}

func TestNewAccessTokenClaims(t *testing.T) {
	tok, err := NewAccessToken("k", 42, "CUSTOMER", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil }); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims["sub"] != "42" || claims["role"] != "CUSTOMER" {
		t.Fatalf("unexpected claims %v", claims)
	}
	if tok.Exp.IsZero() {
		t.Fatal("expiry not set")
	}
}
