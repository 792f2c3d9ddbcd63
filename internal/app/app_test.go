package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"Notes/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var uuidV4 = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Env: "test", Version: "1.2.3", TimeLayout: "1/2/2006, 3:04:05 PM"},
		DB:  config.DBConfig{Driver: "sqlite3", DSN: ":memory:"},
	}
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	gin.SetMode(gin.TestMode)
	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a
}

func request(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any, string) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var obj map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &obj)
	return w.Code, obj, w.Body.String()
}

func TestApp_NoteLifecycle(t *testing.T) {
	h := newTestApp(t, testConfig()).Router()

	code, created, _ := request(t, h, http.MethodPost, "/notes", `{"title":"A","content":"B"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Note created successfully", created["message"])
	id, _ := created["note_id"].(string)
	assert.Regexp(t, uuidV4, id)

	code, got, _ := request(t, h, http.MethodGet, "/notes/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "A", got["title"])
	assert.Equal(t, "B", got["content"])
	assert.Regexp(t, `^\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}:\d{2} (AM|PM)$`, got["createdAt"])

	code, _, _ = request(t, h, http.MethodPut, "/notes/"+id, `{"title":"A2"}`)
	require.Equal(t, http.StatusOK, code)
	_, updated, _ := request(t, h, http.MethodGet, "/notes/"+id, "")
	assert.Equal(t, "A2", updated["title"])
	assert.Equal(t, "B", updated["content"])
	assert.Equal(t, got["createdAt"], updated["createdAt"])

	code, _, _ = request(t, h, http.MethodDelete, "/notes/"+id, "")
	require.Equal(t, http.StatusOK, code)
	code, _, _ = request(t, h, http.MethodGet, "/notes/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _, _ = request(t, h, http.MethodDelete, "/notes/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestApp_ListAfterCreates(t *testing.T) {
	h := newTestApp(t, testConfig()).Router()

	const n = 5
	for i := 0; i < n; i++ {
		code, _, body := request(t, h, http.MethodPost, "/notes", `{"title":"t","content":"c"}`)
		require.Equal(t, http.StatusCreated, code, body)
	}
	code, _, body := request(t, h, http.MethodGet, "/notes", "")
	require.Equal(t, http.StatusOK, code)
	var list []map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	assert.Len(t, list, n)
}

func TestApp_OpsRoutes(t *testing.T) {
	h := newTestApp(t, testConfig()).Router()

	code, health, _ := request(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, health["ok"])

	_, version, _ := request(t, h, http.MethodGet, "/version", "")
	assert.Equal(t, "1.2.3", version["version"])

	_, root, _ := request(t, h, http.MethodGet, "/", "")
	assert.Equal(t, "Notes API", root["service"])

	code, doc, _ := request(t, h, http.MethodGet, "/swagger-doc.json", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, doc["paths"], "/notes/{note_id}")

	request(t, h, http.MethodGet, "/notes", "")
	code, _, metrics := request(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, metrics, `notes_http_requests_total{method="GET",route="/notes",status="200"} 1`)
}

func TestApp_HealthAfterClose(t *testing.T) {
	a := newTestApp(t, testConfig())
	require.NoError(t, a.Close(context.Background()))

	code, health, _ := request(t, a.Router(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, false, health["ok"])
}

func TestApp_WithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.Addr = mr.Addr()
	h := newTestApp(t, cfg).Router()

	code, created, _ := request(t, h, http.MethodPost, "/notes", `{"title":"A","content":"B"}`)
	require.Equal(t, http.StatusCreated, code)
	id := created["note_id"].(string)

	code, _, _ = request(t, h, http.MethodGet, "/notes/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, mr.Exists("note:"+id))

	code, _, _ = request(t, h, http.MethodPut, "/notes/"+id, `{"content":"B2"}`)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, mr.Exists("note:"+id))

	_, got, _ := request(t, h, http.MethodGet, "/notes/"+id, "")
	assert.Equal(t, "B2", got["content"])
}

func TestNew_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Redis.Addr = addr
	_, err := New(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "redis ping")
}

func TestNew_BadDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Driver = "nosuchdriver"
	_, err := New(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "db open")
}
