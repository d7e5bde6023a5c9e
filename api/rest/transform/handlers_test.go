package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/stylize/server/internal/auth"
	"codeberg.org/stylize/server/internal/imagegen"
	"codeberg.org/stylize/server/internal/transform"
	"codeberg.org/stylize/server/internal/usage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	calls atomic.Int32
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, req imagegen.Request) (*imagegen.Image, error) {
	g.calls.Add(1)

	if g.err != nil {
		return nil, g.err
	}

	return &imagegen.Image{MIMEType: "image/png", Data: append([]byte("stylized:"), req.Data...)}, nil
}

type fixture struct {
	router    *gin.Engine
	store     *usage.MemoryStore
	generator *fakeGenerator
	token     string
	spoolDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	verifier, err := auth.NewJWTVerifier("handler-test-secret")
	require.NoError(t, err)

	token, err := verifier.GenerateToken("user-1", "user@example.com", "User One")
	require.NoError(t, err)

	store := usage.NewMemoryStore(usage.DefaultMaxTransformations)
	generator := &fakeGenerator{}
	spoolDir := t.TempDir()

	router := gin.New()
	RegisterRoutes(router, transform.NewService(store, generator, time.Second), verifier,
		UploadLimits{MaxBytes: 1 << 20, Dir: spoolDir}, nil)

	return &fixture{router: router, store: store, generator: generator, token: token, spoolDir: spoolDir}
}

type part struct {
	filename    string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, image *part, style string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, image.filename))
		h.Set("Content-Type", image.contentType)

		w, err := writer.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write(image.data)
		require.NoError(t, err)
	}

	if style != "" {
		require.NoError(t, writer.WriteField("style", style))
	}

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func (f *fixture) post(t *testing.T, image *part, style string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, image, style)

	req := httptest.NewRequest(http.MethodPost, "/transform", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+f.token)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

var portrait = &part{filename: "me.png", contentType: "image/png", data: []byte("portrait")}

func TestTransform_QuotaLifecycle(t *testing.T) {
	f := newFixture(t)

	for i := 1; i <= 6; i++ {
		w := f.post(t, portrait, "Picasso Style", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)

		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "stylized:portrait", w.Body.String())

		var stats usage.UsageStats
		require.NoError(t, json.Unmarshal([]byte(w.Header().Get(usageStatsHeader)), &stats))
		assert.Equal(t, i, stats.TransformationsUsed)
		assert.Equal(t, 6-i, stats.TransformationsRemaining)
		assert.Equal(t, 6, stats.MaxTransformations)
	}

	w := f.post(t, portrait, "Picasso Style", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "LIMIT_EXCEEDED", body["code"])
	assert.Equal(t, "Transformation limit exceeded. You have used 6/6 transformations.", body["message"])

	usageBody, ok := body["usage"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 6, usageBody["transformationsUsed"])
	assert.EqualValues(t, 0, usageBody["transformationsRemaining"])

	assert.EqualValues(t, 6, f.generator.calls.Load())
}

func TestTransform_UnknownStyle(t *testing.T) {
	f := newFixture(t)

	w := f.post(t, portrait, "Cubism", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STYLE", decode(t, w)["code"])
	assert.Zero(t, f.generator.calls.Load(), "provider must not be called")

	record, err := f.store.GetUsage(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, record.TransformationsUsed)
}

func TestTransform_EmptyStyleDefaultsToAnime(t *testing.T) {
	f := newFixture(t)

	w := f.post(t, portrait, "", map[string]string{"Accept": "application/json"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Anime Style", decode(t, w)["style"])
}

func TestTransform_MissingFileBeforeQuota(t *testing.T) {
	f := newFixture(t)

	// exhaust the quota so a quota check would answer 429
	for i := 0; i < 6; i++ {
		_, err := f.store.RecordTransformation(context.Background(), "user-1", usage.KindImageTransform)
		require.NoError(t, err)
	}

	w := f.post(t, nil, "Anime Style", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_IMAGE", decode(t, w)["code"])
}

func TestTransform_RejectsUnsupportedFile(t *testing.T) {
	f := newFixture(t)

	w := f.post(t, &part{filename: "me.gif", contentType: "image/gif", data: []byte("gif")}, "Anime Style", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_IMAGE", decode(t, w)["code"])
	assert.Zero(t, f.generator.calls.Load())
}

func TestTransform_RequiresToken(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	w := f.post(t, portrait, "Anime Style", map[string]string{"Authorization": ""})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "NO_TOKEN", decode(t, w)["code"])
}

func TestTransform_InvalidToken(t *testing.T) {
	f := newFixture(t)
	f.token = "not-a-token"

	w := f.post(t, portrait, "Anime Style", nil)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_TOKEN", decode(t, w)["code"])
}

func TestTransform_ProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.generator.err = imagegen.ErrProviderTimeout

	w := f.post(t, portrait, "Frida Style", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "TRANSFORMATION_FAILED", decode(t, w)["code"])

	record, err := f.store.GetUsage(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, record.TransformationsUsed, "failed transformations are not charged")
}

func TestTransform_JSONResponse(t *testing.T) {
	f := newFixture(t)

	w := f.post(t, portrait, "Oil Painting Style", map[string]string{"Accept": "application/json"})

	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.True(t, strings.HasPrefix(body["transformedImage"].(string), "data:image/png;base64,"))
	assert.Equal(t, "Oil Painting Style", body["style"])
}

func TestTransform_RemovesSpooledUpload(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.post(t, portrait, "Anime Style", nil).Code)

	f.generator.err = imagegen.ErrNoImage
	require.Equal(t, http.StatusInternalServerError, f.post(t, portrait, "Anime Style", nil).Code)

	entries, err := os.ReadDir(f.spoolDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListStyles(t *testing.T) {
	f := newFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/styles", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body StylesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Anime Style", body.Default)
	assert.Len(t, body.Styles, 5)
}
