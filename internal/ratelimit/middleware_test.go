package ratelimit

import (
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

func newRouter(t *testing.T, config *Config) *gin.Engine {
	t.Helper()

	l, err := New(config, nil)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/",
		func(c *gin.Context) {
			if uid := c.GetHeader("X-Test-User"); uid != "" {
				c.Set("user_id", uid)
			}
			c.Next()
		},
		l.Middleware(),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	return r
}

func hit(r http.Handler, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestMiddleware_LimitsPerUser(t *testing.T) {
	r := newRouter(t, &Config{Enabled: true, Rate: "2-M", Prefix: "test"})

	assert.Equal(t, http.StatusNoContent, hit(r, "alice").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, "alice").Code)

	w := hit(r, "alice")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])
	assert.Equal(t, false, body["success"])

	// other users have their own bucket
	assert.Equal(t, http.StatusNoContent, hit(r, "bob").Code)
}

func TestMiddleware_Disabled(t *testing.T) {
	r := newRouter(t, &Config{Enabled: false, Rate: "1-M"})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, "alice").Code)
	}
}

func TestNew_InvalidRate(t *testing.T) {
	_, err := New(&Config{Enabled: true, Rate: "lots"}, nil)

	assert.Error(t, err)
}

func TestNew_DefaultConfig(t *testing.T) {
	l, err := New(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultRate, l.config.Rate)
}
