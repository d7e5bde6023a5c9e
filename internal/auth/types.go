package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("access token required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// verified caller, built from the identity provider's claims
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	Name          string `json:"name"`
}

// Anonymous is what optional auth attaches when no valid token was presented
var Anonymous = &Identity{}

func (i *Identity) IsAnonymous() bool {
	return i == nil || i.UID == ""
}

// turns a bearer token into an identity, or fails with ErrInvalidToken
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// represents JWT claims for the HS256 verifier
type Claims struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type contextKey struct{}

var identityKey contextKey

// name falls back to email when the provider has none
func newIdentity(uid, email string, verified bool, name string) *Identity {
	if name == "" {
		name = email
	}

	return &Identity{UID: uid, Email: email, EmailVerified: verified, Name: name}
}
