package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, handler gin.HandlerFunc) (int, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	handler(c)

	assert.True(t, c.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return w.Code, body
}

func TestHelpers_StatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantCode   string
	}{
		{"no token", NoToken, http.StatusUnauthorized, CodeNoToken},
		{"invalid token", InvalidToken, http.StatusForbidden, CodeInvalidToken},
		{"forbidden", func(c *gin.Context) { Forbidden(c, "") }, http.StatusForbidden, CodeForbidden},
		{"bad request default code", func(c *gin.Context) { BadRequest(c, "", "", nil) }, http.StatusBadRequest, CodeBadRequest},
		{"bad request explicit code", func(c *gin.Context) { BadRequest(c, CodeInvalidStyle, "Invalid style: X", nil) }, http.StatusBadRequest, CodeInvalidStyle},
		{"too many requests", func(c *gin.Context) { TooManyRequests(c, "") }, http.StatusTooManyRequests, CodeTooManyRequests},
		{"transformation failed", func(c *gin.Context) { TransformationFailed(c, fmt.Errorf("boom")) }, http.StatusInternalServerError, CodeTransformationFailed},
		{"storage unavailable", func(c *gin.Context) { StorageUnavailable(c, fmt.Errorf("down")) }, http.StatusInternalServerError, CodeStorageUnavailable},
		{"internal", func(c *gin.Context) { InternalError(c, "", fmt.Errorf("boom")) }, http.StatusInternalServerError, CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respond(t, tt.handler)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
			assert.Equal(t, body["message"], body["error"])
		})
	}
}

func TestQuotaExceeded_CarriesUsage(t *testing.T) {
	usage := map[string]int{"transformationsUsed": 6, "maxTransformations": 6}

	status, body := respond(t, func(c *gin.Context) {
		QuotaExceeded(c, "Transformation limit exceeded. You have used 6/6 transformations.", usage)
	})

	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, CodeLimitExceeded, body["code"])
	assert.Equal(t, "Transformation limit exceeded. You have used 6/6 transformations.", body["message"])

	got, ok := body["usage"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 6, got["transformationsUsed"])
}

func TestSanitizeError_Production(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	assert.Equal(t, "database operation failed", sanitizeError(&pgconn.PgError{Message: "relation missing"}))
	assert.Equal(t, "request timed out", sanitizeError(fmt.Errorf("generate: %w", context.DeadlineExceeded)))
	assert.Equal(t, "an error occurred", sanitizeError(fmt.Errorf("something odd")))
	assert.Equal(t, "", sanitizeError(nil))
}

func TestSanitizeError_Development(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	err := &pgconn.PgError{Message: "relation missing"}
	assert.Equal(t, err.Error(), sanitizeError(err))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, CategoryDatabase, Category(&pgconn.PgError{}))
	assert.Equal(t, CategoryTimeout, Category(context.Canceled))
	assert.Equal(t, CategoryNetwork, Category(fmt.Errorf("dial tcp: connection refused")))
	assert.Equal(t, CategoryValidation, Category(fmt.Errorf("only image files are allowed")))
	assert.Equal(t, CategoryAuth, Category(fmt.Errorf("bad token")))
}
