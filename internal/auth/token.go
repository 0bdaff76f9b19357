// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/toeirei/scribe/internal/security"
)

// ErrInvalidToken is returned for malformed, forged or expired session tokens.
var ErrInvalidToken = errors.New("invalid session token")

// ErrClosed is returned by a TokenManager after Close.
var ErrClosed = errors.New("token manager closed")

const issuer = "scribe"

// TokenManager issues and verifies HS256 session tokens carrying a user id.
type TokenManager struct {
	secret security.Secret
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager signing with secret. An empty secret is
// replaced by a random one, which invalidates sessions on restart.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	key := security.FromString(secret)
	if key.Empty() {
		random, err := RandomSecret()
		if err != nil {
			return nil, err
		}
		key = security.Secret(random)
	}
	return &TokenManager{secret: key, ttl: ttl, now: time.Now}, nil
}

// RandomSecret returns 32 random bytes, hex encoded.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return []byte(hex.EncodeToString(b)), nil
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Close zeroes the signing key. Issue and Parse fail afterwards.
func (m *TokenManager) Close() {
	m.secret.Zero()
	m.secret = nil
}

// Issue signs a token for userID.
func (m *TokenManager) Issue(userID int64) (string, error) {
	if m.secret.Empty() {
		return "", ErrClosed
	}
	now := m.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return s, nil
}

// Parse verifies token and returns the user id it was issued for.
func (m *TokenManager) Parse(token string) (int64, error) {
	if m.secret.Empty() {
		return 0, ErrClosed
	}
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret.Bytes(), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return id, nil
}
