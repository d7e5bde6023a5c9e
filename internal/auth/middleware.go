package auth

import (
	"context"
	"strings"

	"codeberg.org/stylize/server/internal/errors"
	"codeberg.org/stylize/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	identityCtx = "identity"
)

// rejects requests without a valid bearer token and attaches the identity
func RequireAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			errors.NoToken(c)
			return
		}

		identity, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("token verification failed", "error", err)
			errors.InvalidToken(c)
			return
		}

		attach(c, identity)
		c.Next()
	}
}

// verifies the token when present; never rejects. Callers without a valid
// token continue as Anonymous.
func OptionalAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			attach(c, Anonymous)
			c.Next()
			return
		}

		identity, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("optional auth: invalid token, continuing anonymous", "error", err)
			identity = Anonymous
		}

		attach(c, identity)
		c.Next()
	}
}

// only lets through identities the predicate accepts; mount after RequireAuth
func RequireAdmin(isAdmin func(uid string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || identity.IsAnonymous() || !isAdmin(identity.UID) {
			errors.Forbidden(c, "admin access required")
			return
		}

		c.Next()
	}
}

// extracts the identity set by RequireAuth or OptionalAuth
func GetIdentity(c *gin.Context) (*Identity, bool) {
	value, exists := c.Get(identityCtx)
	if !exists {
		return nil, false
	}

	identity, ok := value.(*Identity)
	return identity, ok
}

// extracts user_id from context after RequireAuth
func GetUserID(c *gin.Context) (string, bool) {
	identity, ok := GetIdentity(c)
	if !ok || identity.IsAnonymous() {
		return "", false
	}

	return identity.UID, true
}

// identity carried by a request context, for code below the handlers
func FromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func attach(c *gin.Context, identity *Identity) {
	c.Set(identityCtx, identity)

	ctx := WithIdentity(c.Request.Context(), identity)

	if !identity.IsAnonymous() {
		c.Set(userIDKey, identity.UID)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", identity.UID))
	}

	c.Request = c.Request.WithContext(ctx)
}

// "Bearer <token>"; anything else yields an empty token
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
