// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// Package auth provides password hashing and signed session tokens.
package auth // import "github.com/toeirei/scribe/internal/auth"

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by HashPassword for passwords longer than
// MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password is too long")

// HashPassword returns the bcrypt hash of plain. An empty password hashes to
// the empty string so the user repository reports it as missing.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
