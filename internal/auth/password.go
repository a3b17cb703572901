package auth

import (
	"errors"

	"callcenter-platform/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes plain with bcrypt at the default cost and a random salt.
// Inputs over bcrypt's 72-byte limit are rejected as invalid.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Wrap(apperr.KindInvalid, err, "El campo password debe ocupar como máximo 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches hash. Malformed hashes never match.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
