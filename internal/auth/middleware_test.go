package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// accepts exactly one token value
type stubVerifier struct {
	token    string
	identity *Identity
}

func (s stubVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	if token != s.token {
		return nil, ErrInvalidToken
	}

	return s.identity, nil
}

var testIdentity = &Identity{UID: "uid-1", Email: "a@example.com", EmailVerified: true, Name: "A"}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		fromCtx, _ := FromContext(c.Request.Context())
		userID, _ := GetUserID(c)

		c.JSON(http.StatusOK, gin.H{
			"anonymous": identity.IsAnonymous(),
			"uid":       userID,
			"same":      identity == fromCtx,
		})
	})
	r.GET("/", handlers...)

	return r
}

func do(t *testing.T, r http.Handler, authHeader string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return w.Code, body
}

func TestRequireAuth(t *testing.T) {
	r := newRouter(RequireAuth(stubVerifier{token: "good", identity: testIdentity}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "NO_TOKEN"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "NO_TOKEN"},
		{"bearer without token", "Bearer", http.StatusUnauthorized, "NO_TOKEN"},
		{"invalid token", "Bearer bad", http.StatusForbidden, "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, r, tt.header)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, false, body["success"])
		})
	}

	t.Run("valid token", func(t *testing.T) {
		status, body := do(t, r, "Bearer good")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "uid-1", body["uid"])
		assert.Equal(t, false, body["anonymous"])
		assert.Equal(t, true, body["same"], "gin and request contexts carry the same identity")
	})
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(stubVerifier{token: "good", identity: testIdentity}))

	t.Run("no token continues anonymous", func(t *testing.T) {
		status, body := do(t, r, "")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["anonymous"])
		assert.Equal(t, "", body["uid"])
	})

	t.Run("invalid token continues anonymous", func(t *testing.T) {
		status, body := do(t, r, "Bearer bad")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["anonymous"])
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		status, body := do(t, r, "Bearer good")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "uid-1", body["uid"])
	})
}

func TestRequireAdmin(t *testing.T) {
	admins := func(uid string) bool { return uid == "uid-1" }

	t.Run("admin passes", func(t *testing.T) {
		r := newRouter(RequireAuth(stubVerifier{token: "good", identity: testIdentity}), RequireAdmin(admins))
		status, _ := do(t, r, "Bearer good")

		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		other := &Identity{UID: "uid-2", Email: "b@example.com", Name: "B"}
		r := newRouter(RequireAuth(stubVerifier{token: "good", identity: other}), RequireAdmin(admins))
		status, body := do(t, r, "Bearer good")

		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", body["code"])
	})
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "", bearerToken("Token abc"))
	assert.Equal(t, "", bearerToken("Bearer a b"))
}
