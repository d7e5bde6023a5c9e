package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetStats(t *testing.T) {
	verifier, err := auth.NewJWTVerifier("users-test-secret")
	require.NoError(t, err)

	token, err := verifier.GenerateToken("user-1", "user@example.com", "")
	require.NoError(t, err)

	store := usage.NewMemoryStore(6)
	for i := 0; i < 2; i++ {
		_, err := store.RecordTransformation(context.Background(), "user-1", usage.KindImageTransform)
		require.NoError(t, err)
	}

	router := gin.New()
	RegisterRoutes(router, store, verifier)

	req := httptest.NewRequest(http.MethodGet, "/user/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, UserInfo{UID: "user-1", Email: "user@example.com", Name: "user@example.com"}, body.User)
	assert.Equal(t, 2, body.Usage.TransformationsUsed)
	assert.Equal(t, 4, body.Usage.TransformationsRemaining)
	assert.Len(t, body.Usage.RecentHistory, 2)
}

func TestGetStats_FirstAccessCreatesRecord(t *testing.T) {
	verifier, err := auth.NewJWTVerifier("users-test-secret")
	require.NoError(t, err)

	token, err := verifier.GenerateToken("newcomer", "new@example.com", "New")
	require.NoError(t, err)

	store := usage.NewMemoryStore(6)
	router := gin.New()
	RegisterRoutes(router, store, verifier)

	req := httptest.NewRequest(http.MethodGet, "/user/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	all, err := store.GetAllUsage(context.Background())
	require.NoError(t, err)
	assert.Contains(t, all, "newcomer")
}

func TestGetStats_RequiresToken(t *testing.T) {
	verifier, err := auth.NewJWTVerifier("users-test-secret")
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router, usage.NewMemoryStore(6), verifier)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/stats", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
