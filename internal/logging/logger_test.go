package logging

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNewWritesJSONToRotatedFile(t *testing.T) {
	dir := t.TempDir()

	logger, closer, err := New(Config{Level: "info", LogDir: dir})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("client created", slog.Int64("id", 7))
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "clientreg.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "client created", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])
}

func TestRequestLoggerUsesRequestID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Initialize(Config{Level: "debug", LogDir: dir}))
	t.Cleanup(func() { Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(RequestIDKey, "req-123")
		c.Next()
	})
	router.Use(RequestLogger())
	router.GET("/missing", func(c *gin.Context) {
		assert.NotNil(t, FromContext(c))
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, Close())

	data, err := os.ReadFile(filepath.Join(dir, "clientreg.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"request_id":"req-123"`)
	assert.Contains(t, string(data), `"level":"WARN"`)
	assert.Contains(t, string(data), `"status_code":404`)
}
