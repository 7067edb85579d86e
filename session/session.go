// ABOUTME: Caller identity for tool calls: guest or regular user, from HS256 session tokens
// ABOUTME: Identity travels on the request context so CRM tools can act as the caller
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type UserType string

const (
	UserGuest   UserType = "guest"
	UserRegular UserType = "regular"
)

// Identity is the authenticated caller.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
	Type  UserType  `json:"type"`
}

// Claims are the session token claims issued by the identity provider.
// Role is the onboarding role; a guest who completed onboarding carries one.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Type  UserType `json:"type,omitempty"`
	Role  string   `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Classify decides the user type. A guest with an onboarding role has
// become a regular user; tokens without a type are regular when they
// carry an email.
func Classify(t UserType, email, role string) UserType {
	switch t {
	case UserGuest:
		if strings.TrimSpace(role) != "" {
			return UserRegular
		}
		return UserGuest
	case UserRegular:
		return UserRegular
	}
	if strings.TrimSpace(email) != "" {
		return UserRegular
	}
	return UserGuest
}

// Identity converts claims into an Identity.
func (c *Claims) Identity() (Identity, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse subject %q: %w", c.Subject, err)
	}
	return Identity{
		ID:    id,
		Email: strings.TrimSpace(c.Email),
		Type:  Classify(c.Type, c.Email, c.Role),
	}, nil
}

// ParseToken verifies an HS256 token and returns its identity.
func ParseToken(secret, raw string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse session token: %w", err)
	}
	return claims.Identity()
}

// Static returns a regular identity for a fixed email, used by the stdio
// server and the CLI where there is no token. The id is derived from the
// email so it is stable across runs.
func Static(email string) Identity {
	email = strings.TrimSpace(email)
	return Identity{
		ID:    uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))),
		Email: email,
		Type:  Classify("", email, ""),
	}
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
