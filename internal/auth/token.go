// Package auth verifies bearer tokens minted by the external identity
// provider and places the caller's identity in the request context.
// Password and session handling stay with the provider.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoIdentity   = errors.New("no identity in context")
)

// Identity is the verified caller extracted from a token.
type Identity struct {
	OwnerID string
	Email   string
}

type TokenService struct {
	secretKey  []byte
	adminEmail string
}

func NewTokenService(secret, adminEmail string) *TokenService {
	return &TokenService{secretKey: []byte(secret), adminEmail: adminEmail}
}

// ParseToken verifies the HS256 signature and extracts the identity.
// The subject claim carries the owner ID.
func (s *TokenService) ParseToken(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	return Identity{OwnerID: sub, Email: email}, nil
}

// IsAdmin reports whether the identity matches the configured admin.
func (s *TokenService) IsAdmin(id Identity) bool {
	return s.adminEmail != "" && strings.EqualFold(id.Email, s.adminEmail)
}

// MintToken issues a signed token. Used by tests and local tooling; in
// production tokens come from the identity provider.
func (s *TokenService) MintToken(id Identity, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   id.OwnerID,
		"email": id.Email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity returns a context carrying the verified identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the identity placed by the auth middleware.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.OwnerID == "" {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

// BearerToken pulls the token out of an Authorization header value.
func BearerToken(header string) (string, bool) {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:], true
	}
	return "", false
}
